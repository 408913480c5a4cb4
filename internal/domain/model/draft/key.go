package draft

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Key identifies one form's persistence slot. Two concurrently open
// forms for different entities never share a key, and reopening the
// same logical form always resolves to the same key.
type Key struct {
	value string
}

// newEntitySuffix is used for forms that create a new entity, so that
// "new contact" and "edit contact #42" occupy different slots.
const newEntitySuffix = "new"

// NewEntityKey builds the key for a form editing an entity. An empty
// entityID means the form is creating a new entity.
func NewEntityKey(form, entityID string) (Key, error) {
	slug, err := slugify(form)
	if err != nil {
		return Key{}, err
	}
	suffix := newEntitySuffix
	if entityID != "" {
		suffix, err = slugify(entityID)
		if err != nil {
			return Key{}, fmt.Errorf("entity id %q: %w", entityID, err)
		}
	}
	return Key{value: slug + "_" + suffix}, nil
}

// NewSingletonKey builds the key for a form that exists once per user,
// such as the attendance clock-out dialog.
func NewSingletonKey(form string) (Key, error) {
	slug, err := slugify(form)
	if err != nil {
		return Key{}, err
	}
	return Key{value: slug}, nil
}

// ParseKey accepts an already-slugged key string, e.g. from a CLI
// argument or a storage listing.
func ParseKey(s string) (Key, error) {
	slug, err := slugify(s)
	if err != nil {
		return Key{}, err
	}
	if slug != s {
		return Key{}, fmt.Errorf("invalid draft key %q", s)
	}
	return Key{value: slug}, nil
}

func (k Key) String() string {
	return k.value
}

func (k Key) IsZero() bool {
	return k.value == ""
}

// slugify normalizes a form discriminator or entity ID into the
// character set safe for both file names and database keys: NFKC
// normalization, lowercase, [a-z0-9_-] with runs of anything else
// collapsed into a single underscore.
func slugify(s string) (string, error) {
	s = strings.ToLower(norm.NFKC.String(s))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			if b.Len() > 0 && b.String()[b.Len()-1] != '_' {
				b.WriteRune('_')
			}
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "", fmt.Errorf("empty draft key component %q", s)
	}
	return slug, nil
}
