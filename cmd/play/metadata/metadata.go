// Package metadata resolves display title, artist and cover art for a track
// from the tags embedded in the audio file.
package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dhowden/tag"
)

// UnknownArtist is shown until (and unless) the tags name an artist.
const UnknownArtist = "Unknown Artist"

// Metadata is what the player displays for the current track.
type Metadata struct {
	Title    string
	Artist   string
	CoverURL string // data URL
}

// Picture is embedded cover art as found in the tags.
type Picture struct {
	Format string // MIME type, e.g. image/jpeg
	Data   []byte
}

// Tags is the subset of embedded tags the player cares about. Empty fields
// mean "not present".
type Tags struct {
	Title   string
	Artist  string
	Picture *Picture
}

// TagReader extracts tags from an encoded audio file.
type TagReader interface {
	ReadTags(r io.ReadSeeker) (Tags, error)
}

// Defaults returns the metadata shown before resolution completes.
func Defaults(name string) Metadata {
	return Metadata{
		Title:    name,
		Artist:   UnknownArtist,
		CoverURL: DefaultCoverURL(),
	}
}

// Merge overwrites each field independently, only if the tags provide it.
func (m Metadata) Merge(t Tags) Metadata {
	if t.Title != "" {
		m.Title = t.Title
	}
	if t.Artist != "" {
		m.Artist = t.Artist
	}
	if t.Picture != nil && len(t.Picture.Data) > 0 {
		m.CoverURL = DataURL(t.Picture.Format, t.Picture.Data)
	}
	return m
}

// Resolver turns a track into display metadata.
type Resolver struct {
	reader TagReader
	log    *slog.Logger
}

type Option func(*Resolver)

// WithTagReader replaces the default dhowden/tag backed reader.
func WithTagReader(reader TagReader) Option {
	return func(r *Resolver) { r.reader = reader }
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		reader: TagLibReader{},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve reads the tags of one track. It always returns usable metadata:
// on failure the defaults come back together with the error.
func (r *Resolver) Resolve(ctx context.Context, name string, data io.ReadSeeker) (Metadata, error) {
	md := Defaults(name)
	if err := ctx.Err(); err != nil {
		return md, err
	}

	tags, err := r.reader.ReadTags(data)
	if err != nil {
		r.log.Warn("tag read failed", "track", name, "error", err)
		return md, fmt.Errorf("reading tags of %s: %w", name, err)
	}

	r.log.Debug("tags resolved", "track", name, "title", tags.Title, "artist", tags.Artist, "picture", tags.Picture != nil)
	return md.Merge(tags), nil
}

// TagLibReader reads ID3, MP4, FLAC and OGG tags.
type TagLibReader struct{}

func (TagLibReader) ReadTags(r io.ReadSeeker) (Tags, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return Tags{}, err
	}

	t := Tags{
		Title:  strings.TrimSpace(m.Title()),
		Artist: strings.TrimSpace(m.Artist()),
	}
	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		format := pic.MIMEType
		if format == "" && pic.Ext != "" {
			format = "image/" + strings.ToLower(pic.Ext)
		}
		t.Picture = &Picture{Format: format, Data: pic.Data}
	}
	return t, nil
}
