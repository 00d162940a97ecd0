package render

import (
	"log"
	"sync"

	ggtext "github.com/gogpu/gg/text"
)

// Label text on site photos is frequently Japanese, so the fallback chain
// tries a CJK-capable font after the primary Latin one.
var latinFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

var cjkFontPaths = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/opentype/ipafont-gothic/ipag.ttf",
	"/usr/share/fonts/opentype/ipaexfont-gothic/ipaexg.ttf",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"C:\\Windows\\Fonts\\msgothic.ttc",
	"C:\\Windows\\Fonts\\YuGothM.ttc",
}

// fontSet holds the loaded font sources for one font configuration.
type fontSet struct {
	sources []*ggtext.FontSource
}

var (
	fontMu   sync.Mutex
	fontSets = map[string]*fontSet{}
)

// loadFontSet loads the font sources for an explicit font path, or for the
// system font search when the path is empty. Results are cached per path;
// missing or unparsable fonts are skipped silently and an empty set means
// text annotations will not be rendered.
func loadFontSet(explicit string) *fontSet {
	fontMu.Lock()
	defer fontMu.Unlock()

	if set, ok := fontSets[explicit]; ok {
		return set
	}

	var paths []string
	if explicit != "" {
		paths = append(paths, explicit)
	} else {
		paths = append(paths, latinFontPaths...)
	}
	paths = append(paths, cjkFontPaths...)

	set := &fontSet{}
	havePrimary := false
	for _, p := range paths {
		src, err := ggtext.NewFontSourceFromFile(p)
		if err != nil {
			continue
		}
		if !havePrimary {
			havePrimary = true
			set.sources = append(set.sources, src)
			continue
		}
		set.sources = append(set.sources, src)
		// One primary plus one CJK fallback is enough.
		if len(set.sources) == 2 {
			break
		}
	}

	if len(set.sources) == 0 {
		log.Printf("render: no usable font found, text annotations will be skipped")
	}
	fontSets[explicit] = set
	return set
}

// face builds a Face at the given pixel size, chaining the fallback sources
// so CJK runes resolve even when the primary font lacks them. Returns nil
// when no font could be loaded.
func (s *fontSet) face(size float64) ggtext.Face {
	if len(s.sources) == 0 {
		return nil
	}
	if len(s.sources) == 1 {
		return s.sources[0].Face(size)
	}
	faces := make([]ggtext.Face, 0, len(s.sources))
	for _, src := range s.sources {
		faces = append(faces, src.Face(size))
	}
	multi, err := ggtext.NewMultiFace(faces...)
	if err != nil {
		return faces[0]
	}
	return multi
}
