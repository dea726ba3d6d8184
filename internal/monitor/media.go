package monitor

import "math/rand"

// MediaCategory names the kinds of companion media the monitor can send.
type MediaCategory string

const (
	Image     MediaCategory = "image"
	VoiceNote MediaCategory = "voiceNote"
	Video     MediaCategory = "video"
)

// Default captions per category, in the voice of the companion.
const (
	imageCaption     = "Here's a calming fractal to help you relax."
	voiceNoteCaption = "Here's an inspiring voice note to lift your spirits!"
	videoCaption     = "Here's a motivational video to inspire you!"
)

// MediaItem is one selected resource plus the caption to send with it.
type MediaItem struct {
	Category MediaCategory
	Caption  string
	Path     string
}

type mediaGroup struct {
	category MediaCategory
	caption  string
	paths    []string
}

// MediaCatalog is static configuration: ordered resource lists per category
// plus the calming links used as a last-resort fallback. Empty categories
// are skipped, not errors.
type MediaCatalog struct {
	groups []mediaGroup
	links  []string
}

// NewMediaCatalog assembles a catalog from per-category resource paths and
// the fallback link list.
func NewMediaCatalog(images, voiceNotes, videos, calmingLinks []string) *MediaCatalog {
	return &MediaCatalog{
		groups: []mediaGroup{
			{Image, imageCaption, images},
			{VoiceNote, voiceNoteCaption, voiceNotes},
			{Video, videoCaption, videos},
		},
		links: calmingLinks,
	}
}

// Pick chooses a category uniformly among non-empty ones, then a resource
// uniformly within it. Returns false when every category is empty.
func (c *MediaCatalog) Pick(rng *rand.Rand) (MediaItem, bool) {
	var nonEmpty []mediaGroup
	for _, g := range c.groups {
		if len(g.paths) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}
	if len(nonEmpty) == 0 {
		return MediaItem{}, false
	}
	g := nonEmpty[rng.Intn(len(nonEmpty))]
	return MediaItem{
		Category: g.category,
		Caption:  g.caption,
		Path:     g.paths[rng.Intn(len(g.paths))],
	}, true
}

// CalmingLink returns a random fallback link, or false when none are
// configured.
func (c *MediaCatalog) CalmingLink(rng *rand.Rand) (string, bool) {
	if len(c.links) == 0 {
		return "", false
	}
	return c.links[rng.Intn(len(c.links))], true
}
