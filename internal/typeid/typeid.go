package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixMap    = "map"
	PrefixWall   = "wall"
	PrefixPortal = "door"
	PrefixLight  = "light"
	PrefixToken  = "token"
	PrefixOp     = "op"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewMapID() string    { return New(PrefixMap) }
func NewWallID() string   { return New(PrefixWall) }
func NewPortalID() string { return New(PrefixPortal) }
func NewLightID() string  { return New(PrefixLight) }
func NewTokenID() string  { return New(PrefixToken) }
func NewOpID() string     { return New(PrefixOp) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
