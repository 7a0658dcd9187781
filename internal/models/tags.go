package models

import (
	"encoding/json"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
)

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Tags []Tag

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (t Tags) MarshalBinary() (data []byte, err error) {
	return json.Marshal(t)
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (t *Tags) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, t)
}

// HasName checks for a tag name ignoring case
func (t Tags) HasName(name string) bool {
	return slices.ContainsFunc(t, func(tag Tag) bool {
		return strings.EqualFold(tag.Name, name)
	})
}

// Colors a tag can get
var TagColors = []string{
	"purple",
	"pink",
	"blue",
	"green",
	"yellow",
	"red",
	"indigo",
	"cyan",
}

// RandomTagColor picks a color from the palette
func RandomTagColor() string {
	return TagColors[rand.IntN(len(TagColors))] // #nosec G404
}
