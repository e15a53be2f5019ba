package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"

	"github.com/framegrace/texelrender/canvas"
	"github.com/framegrace/texelrender/config"
	"github.com/framegrace/texelrender/grid"
	"github.com/framegrace/texelrender/render"
	"github.com/framegrace/texelrender/term"
)

const sampleSource = `package main

import "fmt"

func main() {
	for i := 0; i < 3; i++ {
		fmt.Println("hello", i)
	}
}
`

func main() {
	colorFlag := flag.String("color", "", "color level: 16, 256, truecolor (default: config/auto)")
	fileFlag := flag.String("file", "", "source file to highlight in the code panel")
	styleFlag := flag.String("style", "catppuccin-mocha", "chroma style for the code panel")
	duration := flag.Duration("duration", 15*time.Second, "how long to run")
	flag.Parse()

	source := sampleSource
	name := "sample.go"
	if *fileFlag != "" {
		data, err := os.ReadFile(*fileFlag)
		if err != nil {
			log.Fatalf("read %s: %v", *fileFlag, err)
		}
		source = string(data)
		name = *fileFlag
	}

	opts := sessionOptions(*colorFlag)
	s, err := term.NewSession(os.Stdin, os.Stdout, opts...)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
	if err := s.Start(); err != nil {
		log.Fatalf("start: %v", err)
	}
	defer s.Stop()

	code := highlightSource(name, source, *styleFlag)

	quit := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 && (buf[0] == 'q' || buf[0] == 0x03) {
				close(quit)
				return
			}
		}
	}()

	fps := config.Get().GetInt("render", "target_fps", 60)
	if fps < 1 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	deadline := time.After(*duration)

	frame := 0
	for {
		drawScene(s, code, frame)
		if _, err := s.Flush(); err != nil {
			s.Stop()
			log.Fatalf("flush: %v", err)
		}
		select {
		case <-quit:
			return
		case <-deadline:
			return
		case <-s.ResizeEvents():
			if _, _, err := s.HandleResize(); err != nil {
				s.Stop()
				log.Fatalf("resize: %v", err)
			}
		case <-ticker.C:
			frame++
		}
	}
}

func sessionOptions(colorFlag string) []term.SessionOption {
	var opts []term.SessionOption

	name := colorFlag
	if name == "" {
		name = os.Getenv("TEXELRENDER_COLOR")
	}
	if name == "" {
		name = config.Get().GetString("render", "color_level", "auto")
	}
	if level, ok := render.ParseColorLevel(name); ok {
		opts = append(opts, term.WithColorLevel(level))
	}
	if !config.Get().GetBool("render", "alt_screen", true) {
		opts = append(opts, term.WithAltScreen(false))
	}
	return opts
}

// drawScene paints a shape gallery on the left and the highlighted code
// panel on the right.
func drawScene(s *term.Session, code [][]span, frame int) {
	w, h := s.Size()
	p := canvas.NewPainter(s.Buffer())
	p.FillRect(canvas.Rect{X: 0, Y: 0, W: w, H: h}, grid.Style{BG: grid.Palette(234)})

	title := fmt.Sprintf(" texelrender demo · %s · q quits ", s.ColorLevel())
	p.DrawText(1, 0, title, grid.Style{FG: grid.Standard(0), BG: grid.Standard(6)})

	split := w / 2
	gallery := canvas.Rect{X: 0, Y: 1, W: split, H: h - 1}
	drawGallery(p, gallery, frame)

	panel := canvas.Rect{X: split, Y: 1, W: w - split, H: h - 1}
	drawCodePanel(p, panel, code)
}

func drawGallery(p *canvas.Painter, r canvas.Rect, frame int) {
	if r.W < 10 || r.H < 8 {
		return
	}
	p.PushClip(r)
	defer p.PopClip()

	accent := grid.Style{FG: grid.RGB(137, 180, 250)}
	warm := grid.Style{FG: grid.RGB(250, 179, 135)}
	green := grid.Style{FG: grid.Palette(114)}

	p.StrokeRect(canvas.Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}, accent)

	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	radius := r.H / 3
	if rw := r.W/2 - 3; rw < radius {
		radius = rw
	}
	p.Circle(cx, cy, radius, false, warm)

	// A sweeping arc inside the circle.
	sweep := float64((frame * 6) % 360)
	p.Arc(cx, cy, radius-2, 0, sweep, green)

	p.Polygon([]canvas.Point{
		{X: r.X + 3, Y: r.Y + r.H - 3},
		{X: r.X + 9, Y: r.Y + r.H - 7},
		{X: r.X + 15, Y: r.Y + r.H - 3},
	}, true, grid.Style{FG: grid.Palette(176)})

	p.Line(r.X+2, r.Y+2, r.X+r.W-3, r.Y+2, accent)
}

// span is one styled run of a highlighted source line.
type span struct {
	text  string
	style grid.Style
}

func drawCodePanel(p *canvas.Painter, r canvas.Rect, code [][]span) {
	if r.W < 4 || r.H < 3 {
		return
	}
	p.PushClip(r)
	defer p.PopClip()

	p.FillRect(r, grid.Style{BG: grid.Palette(235)})
	for i, line := range code {
		y := r.Y + 1 + i
		if y >= r.Y+r.H-1 {
			break
		}
		x := r.X + 2
		for _, sp := range line {
			st := sp.style
			st.BG = grid.Palette(235)
			p.DrawText(x, y, sp.text, st)
			x += len([]rune(sp.text))
		}
	}
}

// highlightSource tokenizes source code into styled spans per line. Language
// detection prefers enry's content classifier; chroma's lexer registry maps
// the detected name to a lexer.
func highlightSource(name, source, styleName string) [][]span {
	lang := enry.GetLanguage(name, []byte(source))

	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(strings.ToLower(lang))
	}
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	tokens, err := chroma.Tokenise(lexer, nil, source)
	if err != nil {
		return [][]span{{{text: source, style: grid.DefaultStyle()}}}
	}

	var lines [][]span
	var cur []span
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		st := tokenStyle(style, tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			if part != "" {
				cur = append(cur, span{text: part, style: st})
			}
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func tokenStyle(style *chroma.Style, t chroma.TokenType) grid.Style {
	entry := style.Get(t)
	st := grid.DefaultStyle()
	if entry.Colour.IsSet() {
		st.FG = grid.RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
	}
	if entry.Bold == chroma.Yes {
		st.Attr |= grid.AttrBold
	}
	if entry.Italic == chroma.Yes {
		st.Attr |= grid.AttrItalic
	}
	if entry.Underline == chroma.Yes {
		st.Attr |= grid.AttrUnderline
	}
	return st
}
