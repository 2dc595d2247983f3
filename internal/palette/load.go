package palette

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"geoplot/internal/paint"
)

type fileBin struct {
	Lo    *float64 `yaml:"lo"`
	Hi    *float64 `yaml:"hi"`
	Key   string   `yaml:"key"`
	Color string   `yaml:"color"`
	Skip  bool     `yaml:"skip"`
}

type fileSpecial struct {
	Color string `yaml:"color"`
	Skip  bool   `yaml:"skip"`
}

type file struct {
	Categorical bool         `yaml:"categorical"`
	Bins        []fileBin    `yaml:"bins"`
	Background  *fileSpecial `yaml:"background"`
	Foreground  *fileSpecial `yaml:"foreground"`
	NaN         *fileSpecial `yaml:"nan"`
}

// Load reads a YAML palette file:
//
//	bins:
//	  - {lo: 0, hi: 5, color: red}
//	  - {lo: 5, hi: 10, color: blue}
//	background: {color: black}
//	nan: {color: gray, skip: true}
func Load(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode parses a YAML palette from r.
func Decode(r io.Reader) (*Palette, error) {
	var pf file
	if err := yaml.NewDecoder(r).Decode(&pf); err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	bins := make([]Bin, 0, len(pf.Bins))
	for i, fb := range pf.Bins {
		c, err := paint.ParseColor(fb.Color)
		if err != nil {
			return nil, fmt.Errorf("palette bin %d: %w", i, err)
		}
		b := Bin{Key: fb.Key, Color: c, Skip: fb.Skip}
		if !pf.Categorical {
			if fb.Lo == nil || fb.Hi == nil {
				return nil, fmt.Errorf("palette bin %d: lo and hi required", i)
			}
			b.Lo, b.Hi = *fb.Lo, *fb.Hi
		}
		bins = append(bins, b)
	}
	var p *Palette
	var err error
	if pf.Categorical {
		p, err = NewCategorical(bins)
	} else {
		p, err = New(bins)
	}
	if err != nil {
		return nil, err
	}
	special := func(fs *fileSpecial, c *paint.Color, skip *bool) error {
		if fs == nil {
			return nil
		}
		*skip = fs.Skip
		if fs.Color == "" {
			return nil
		}
		v, err := paint.ParseColor(fs.Color)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}
	if err := special(pf.Background, &p.Background, &p.SkipBackground); err != nil {
		return nil, fmt.Errorf("palette background: %w", err)
	}
	if err := special(pf.Foreground, &p.Foreground, &p.SkipForeground); err != nil {
		return nil, fmt.Errorf("palette foreground: %w", err)
	}
	if err := special(pf.NaN, &p.NaN, &p.SkipNaN); err != nil {
		return nil, fmt.Errorf("palette nan: %w", err)
	}
	return p, nil
}
