package symbol

import (
	"fmt"
	"strconv"
	"strings"

	"geoplot/internal/prim"
	"geoplot/internal/record"
)

var markers = map[byte]prim.Glyph{
	'a': prim.Star, 'c': prim.Circle, 'd': prim.Diamond, 'g': prim.Octagon,
	'h': prim.Hexagon, 'i': prim.InvTriangle, 'n': prim.Pentagon, 'p': prim.Dot,
	's': prim.Square, 't': prim.Triangle, 'x': prim.Cross, '+': prim.Plus,
	'-': prim.XDash, 'y': prim.YDash,
}

// Parse decodes a symbol code. Lengths without a unit suffix use def.
// An empty code selects line mode, "none" draws nothing.
func Parse(code string, def record.Unit) (Spec, error) {
	code = strings.TrimSpace(code)
	s := Spec{Code: code}
	if code == "" {
		s.Kind = KindLine
		return s, nil
	}
	if code == "none" {
		s.Kind = KindNone
		return s, nil
	}
	perr := func(format string, args ...any) error {
		return fmt.Errorf("symbol %q: %s", code, fmt.Sprintf(format, args...))
	}
	c, rest := code[0], code[1:]

	if g, ok := markers[c]; ok {
		s.Kind = KindMarker
		s.Marker = g
		if rest == "" && g == prim.Dot {
			s.SizeX = 1
			return s, nil
		}
		if err := s.size(rest, def); err != nil {
			return Spec{}, perr("%v", err)
		}
		return s, nil
	}

	if c == 'l' {
		s.Kind = KindText
		sz, txt, _ := strings.Cut(rest, "+t")
		s.Text.Text = txt
		if err := s.size(sz, def); err != nil {
			return Spec{}, perr("%v", err)
		}
		s.Text.Font = s.SizeX
		return s, nil
	}

	head, mods := splitMods(rest)
	switch c {
	case 'b', 'B', 'o':
		s.Kind = map[byte]Kind{'b': KindBarY, 'B': KindBarX, 'o': KindColumn}[c]
		if strings.HasSuffix(head, "u") {
			s.Bar.UserWidth = true
			head = strings.TrimSuffix(head, "u")
		}
		if s.Bar.UserWidth {
			if head == "" {
				s.ReadSize = true
			} else if v, err := strconv.ParseFloat(head, 64); err == nil {
				s.SizeX = v
			} else {
				return Spec{}, perr("bad width %q", head)
			}
		} else if err := s.size(head, def); err != nil {
			return Spec{}, perr("%v", err)
		}
		for _, m := range mods {
			if m == "" {
				continue
			}
			arg := m[1:]
			switch m[0] {
			case 'b':
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return Spec{}, perr("bad base %q", arg)
				}
				s.Base, s.BaseSet = v, true
			case 'B':
				s.BaseFromColumn = true
			case 'v', 'i':
				n, err := strconv.Atoi(arg)
				if err != nil || n < 1 {
					return Spec{}, perr("bad band count %q", arg)
				}
				s.Bar.Bands = n
				s.Bar.Increments = m[0] == 'i'
			case 's':
				s.Bar.SideBySide = true
				if arg != "" {
					v, err := strconv.ParseFloat(arg, 64)
					if err != nil || v < 0 || v >= 1 {
						return Spec{}, perr("bad gap %q", arg)
					}
					s.Bar.Gap = v
				}
			default:
				return Spec{}, perr("unknown modifier +%s", m)
			}
		}
		if n := s.Bar.Bands; s.Bar.SideBySide && n > 1 && float64(n-1)*s.Bar.Gap >= 1 {
			return Spec{}, perr("gap %g leaves no room for %d bands", s.Bar.Gap, n)
		}
	case 'u':
		s.Kind = KindCube
		if err := s.size(head, def); err != nil {
			return Spec{}, perr("%v", err)
		}
	case 'e', 'E', 'j', 'J':
		s.Kind = KindEllipse
		if c == 'j' || c == 'J' {
			s.Kind = KindRotRect
		}
		if c == 'E' || c == 'J' {
			s.Azimuth, s.Geographic = true, true
		}
		if s.Kind == KindEllipse && strings.HasPrefix(head, "-") {
			s.Degenerate = true
			d := head[1:]
			switch {
			case d == "":
			case s.Geographic:
				v, err := strconv.ParseFloat(d, 64)
				if err != nil || v <= 0 {
					return Spec{}, perr("bad diameter %q", d)
				}
				s.SizeX = v
			default:
				if err := s.size(d, def); err != nil {
					return Spec{}, perr("%v", err)
				}
			}
		}
	case 'v', 'V', '=', 'm':
		switch c {
		case 'v':
			s.Kind = KindVector
		case 'V':
			s.Kind, s.Azimuth = KindVector, true
		case '=':
			s.Kind, s.Azimuth, s.Geographic = KindGeoVector, true, true
		case 'm':
			s.Kind = KindMathArc
		}
		if err := s.vector(head, mods, def); err != nil {
			return Spec{}, perr("%v", err)
		}
	case 'w', 'W':
		s.Kind = KindWedge
		s.Azimuth = c == 'W'
		if err := s.size(head, def); err != nil {
			return Spec{}, perr("%v", err)
		}
		for _, m := range mods {
			if strings.HasPrefix(m, "i") {
				v, err := record.ParseLength(m[1:], def)
				if err != nil {
					return Spec{}, perr("%v", err)
				}
				s.InnerRadius = v
			} else if m != "" {
				return Spec{}, perr("unknown modifier +%s", m)
			}
		}
	case 'k':
		s.Kind = KindCustom
		name, sz, ok := strings.Cut(head, "/")
		if !ok || name == "" {
			return Spec{}, perr("custom symbol needs <name>/<size>")
		}
		s.Custom.Name = name
		if err := s.size(sz, def); err != nil {
			return Spec{}, perr("%v", err)
		}
		for _, m := range mods {
			if m == "a" {
				s.Custom.ReadAngle = true
			} else if m != "" {
				return Spec{}, perr("unknown modifier +%s", m)
			}
		}
	case 'f':
		s.Kind = KindFront
		if err := s.front(head, mods, def); err != nil {
			return Spec{}, perr("%v", err)
		}
	case 'q', '~':
		s.Kind = KindQuoted
		if c == '~' {
			s.Kind = KindDecorated
			s.Deco.Marker = "c4p"
		}
		v, err := record.ParseLength(head, def)
		if err != nil || v <= 0 {
			return Spec{}, perr("bad spacing %q", head)
		}
		s.Deco.Spacing = v
		for _, m := range mods {
			switch {
			case strings.HasPrefix(m, "l"):
				s.Deco.Label = m[1:]
			case strings.HasPrefix(m, "g"):
				s.Deco.Marker = m[1:]
			case m != "":
				return Spec{}, perr("unknown modifier +%s", m)
			}
		}
	default:
		return Spec{}, perr("unknown symbol type %q", string(c))
	}
	return s, nil
}

// splitMods splits "<head>+a+b..." into head and modifier strings.
func splitMods(s string) (string, []string) {
	parts := strings.Split(s, "+")
	return parts[0], parts[1:]
}

// size sets SizeX (and SizeY for "<x>/<y>") or marks the size as read
// from a column when s is empty.
func (sp *Spec) size(s string, def record.Unit) error {
	if s == "" {
		sp.ReadSize = true
		return nil
	}
	x, y, two := strings.Cut(s, "/")
	v, err := record.ParseLength(x, def)
	if err != nil {
		return err
	}
	sp.SizeX, sp.SizeY = v, v
	if two {
		if sp.SizeY, err = record.ParseLength(y, def); err != nil {
			return err
		}
	}
	return nil
}

func (sp *Spec) vector(head string, mods []string, def record.Unit) error {
	v := VectorParams{Apex: 30, Floor: 0.25, Justify: JustBegin}
	if head != "" {
		l, err := record.ParseLength(head, def)
		if err != nil {
			return err
		}
		v.HeadLength = l
	}
	for _, m := range mods {
		if m == "" {
			continue
		}
		arg := m[1:]
		switch m[0] {
		case 'b':
			v.Begin = true
		case 'e':
			v.End = true
		case 's':
			v.EndPoint = true
		case 'j':
			switch arg {
			case "b":
				v.Justify = JustBegin
			case "c":
				v.Justify = JustCenter
			case "e":
				v.Justify = JustEnd
			default:
				return fmt.Errorf("bad justification %q", arg)
			}
		case 'a':
			a, err := strconv.ParseFloat(arg, 64)
			if err != nil || a <= 0 || a >= 180 {
				return fmt.Errorf("bad apex %q", arg)
			}
			v.Apex = a
		case 'h':
			h, err := strconv.ParseFloat(arg, 64)
			if err != nil || h < 0 || h > 1 {
				return fmt.Errorf("bad head shape %q", arg)
			}
			v.Shape = h
		case 'n':
			v.Shrink = true
			norm, floor, hasFloor := strings.Cut(arg, "/")
			n, err := record.ParseLength(norm, def)
			if err != nil || n <= 0 {
				return fmt.Errorf("bad shrink norm %q", norm)
			}
			v.Norm = n
			if hasFloor {
				f, err := strconv.ParseFloat(floor, 64)
				if err != nil || f < 0 || f > 1 {
					return fmt.Errorf("bad shrink floor %q", floor)
				}
				v.Floor = f
			}
		default:
			return fmt.Errorf("unknown modifier +%s", m)
		}
	}
	if !v.Begin && !v.End && v.HeadLength > 0 {
		v.End = true
	}
	sp.Vector = v
	return nil
}

func (sp *Spec) front(head string, mods []string, def record.Unit) error {
	gap, length, ok := strings.Cut(head, "/")
	if !ok {
		return fmt.Errorf("front needs <gap>/<length>")
	}
	f := FrontParams{Shape: FrontFault}
	if strings.HasPrefix(gap, "-") {
		n, err := strconv.Atoi(gap[1:])
		if err != nil || n < 1 {
			return fmt.Errorf("bad tick count %q", gap)
		}
		f.Gap = -float64(n)
	} else {
		g, err := record.ParseLength(gap, def)
		if err != nil || g <= 0 {
			return fmt.Errorf("bad tick gap %q", gap)
		}
		f.Gap = g
	}
	l, err := record.ParseLength(length, def)
	if err != nil || l <= 0 {
		return fmt.Errorf("bad tick length %q", length)
	}
	f.Length = l
	for _, m := range mods {
		switch m {
		case "l":
			f.Side = SideLeft
		case "r":
			f.Side = SideRight
		case "b":
			f.Shape = FrontBox
		case "c":
			f.Shape = FrontCircle
		case "f":
			f.Shape = FrontFault
		case "s":
			f.Shape = FrontSlip
		case "t":
			f.Shape = FrontTriangle
		case "":
		default:
			return fmt.Errorf("unknown modifier +%s", m)
		}
	}
	sp.Front = f
	return nil
}
