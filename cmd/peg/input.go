package main

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/clarete/peg"
)

// decoder returns what transcodes input files to utf-8.  A nil decoder
// means the files are used as they are.
func decoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
}

// openInput loads the file at `path` the way the configuration says:
// read or mapped into memory, then transcoded to utf-8
func openInput(cfg *peg.Config, path string) (*peg.Input, error) {
	load := peg.ReadFile
	if cfg.GetBool("input.mmap") {
		load = peg.MmapFile
	}
	in, err := load(path)
	if err != nil {
		return nil, err
	}

	dec, err := decoder(cfg.GetString("input.encoding"))
	if err != nil || dec == nil {
		return in, err
	}
	data, _, err := transform.Bytes(dec, in.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return peg.NewInput(data, path), nil
}
