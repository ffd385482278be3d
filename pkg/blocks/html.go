package blocks

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/pkg/errors"
)

// ParseHTML converts pasted HTML into a Block sequence by way of markup
// text. Constructs without a markup equivalent degrade the way the
// HTML-to-markdown conversion defines.
func (c *Converter) ParseHTML(src []byte) ([]*Block, error) {
	md, err := htmltomarkdown.ConvertString(string(src))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return c.Parse([]byte(md))
}
