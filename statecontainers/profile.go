package statecontainers

import (
	"strings"

	"github.com/km-arc/go-state/framework/state"
)

var (
	nameKey  = state.NewKey[string]("Name")
	themeKey = state.NewKey[string]("Theme")
	tagsKey  = state.NewKey[[]string]("Tags")
)

// themes differing only in case are the same theme
var themeComparer state.Comparer[string] = state.ComparerFunc[string](strings.EqualFold)

// Profile holds the signed-in user's display preferences.
type Profile struct {
	state.Base
}

func NewProfile() *Profile { return &Profile{} }

func (p *Profile) Name() string        { return state.Get(p, nameKey) }
func (p *Profile) SetName(name string) { state.Set(p, nameKey, name) }

// Theme defaults to "light" until one is set.
func (p *Profile) Theme() string {
	if t := state.Get(p, themeKey); t != "" {
		return t
	}
	return "light"
}

func (p *Profile) SetTheme(theme string) { state.Set(p, themeKey, theme, themeComparer) }

func (p *Profile) Tags() []string { return state.Get(p, tagsKey) }

// SetTags replaces the tags; nil clears them.
func (p *Profile) SetTags(tags []string) { state.Set(p, tagsKey, tags) }
