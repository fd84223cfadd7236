package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
)

// ErrFrontMatterMissing is returned for documents without a leading --- (YAML) or
// +++ (TOML) block.
var ErrFrontMatterMissing = errors.New("markdown: front matter missing")

// ParseFrontMatter decodes the front matter of source into out and returns the
// Markdown body with leading blank lines removed.
func ParseFrontMatter(source []byte, out any) ([]byte, error) {
	body, err := frontmatter.MustParse(bytes.NewReader(source), out)
	switch {
	case errors.Is(err, frontmatter.ErrNotFound):
		return nil, ErrFrontMatterMissing
	case err != nil:
		return nil, fmt.Errorf("markdown: parse front matter: %w", err)
	}
	return bytes.TrimLeft(body, "\r\n"), nil
}
