package asset

import (
	"fmt"
	"strings"
)

// Kind selects the bundle variant. It is a tagged enum rather than a type
// hierarchy; bundle.ProfileFor switches on it.
type Kind int

const (
	Script Kind = iota + 1
	Stylesheet
)

func (k Kind) String() string {
	switch k {
	case Script:
		return "script"
	case Stylesheet:
		return "stylesheet"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Extension returns the published file extension for the kind.
func (k Kind) Extension() string {
	switch k {
	case Script:
		return ".js"
	case Stylesheet:
		return ".css"
	default:
		return ""
	}
}

// DefaultContextDir returns the CDN folder used when the site does not
// override it.
func (k Kind) DefaultContextDir() string {
	switch k {
	case Script:
		return string(ContextScripts)
	case Stylesheet:
		return "stylesheets"
	default:
		return string(ContextOther)
	}
}

// ParseKind accepts the names used on the command line and in templates.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "script", "scripts", "js", "javascript", "javascripts":
		return Script, nil
	case "stylesheet", "stylesheets", "css", "style", "styles":
		return Stylesheet, nil
	default:
		return 0, fmt.Errorf("unknown asset kind %q", value)
	}
}
