package fetcher

import (
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// DecodeCharset wraps r so its bytes are decoded from the named
// charset into UTF-8. An empty name returns r unchanged. Names follow
// the WHATWG encoding labels ("windows-1252", "iso-8859-1", ...).
func DecodeCharset(r io.Reader, name string) (io.Reader, error) {
	if name == "" || name == "utf-8" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: unknown charset %q", name)
	}
	return enc.NewDecoder().Reader(r), nil
}
