package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/jaminalder/reversi/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"rows": func() []int {
			a := make([]int, domain.Size)
			for i := range a {
				a[i] = i + 1
			}
			return a
		},
		"list": func(s ...string) []string { return s },
		"cell": func(g *domain.Game, r, c int) domain.Stone { return g.Board[r][c] },
		"cellSymbol": func(s domain.Stone) string {
			switch s {
			case domain.DarkStone:
				return "●"
			case domain.LightStone:
				return "○"
			default:
				return ""
			}
		},
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Reversi</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Reversi</h1><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-container" hx-sse="swap:board">{{.BoardHTML}}</div>
</div>`))
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

// singleLine strips newlines so a fragment fits in one SSE data field.
func singleLine(b []byte) string {
	return strings.ReplaceAll(string(b), "\n", "")
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">
    {{if .Game.IsOver}}<strong>Game over: {{.Game.Summary}}</strong>
    {{else}}Turn: <span class="turn">{{.Game.Turn}}</span>{{end}}
    Dark {{.Dark}} / Light {{.Light}} / Moves {{.Game.HistoryLen}}
  </div>
  {{if .Hint}}<div class="hint">{{.Hint}}</div>{{end}}
  {{$id := .ID}}{{$g := .Game}}
  {{range $r := rows}}
  <div class="row">
    {{range $c := rows}}
      <form hx-post="/game/{{$id}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit">{{cellSymbol (cell $g $r $c)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <div class="controls">
    {{range $op := (list "pass" "undo" "redo" "save" "load")}}
    <button hx-post="/game/{{$id}}/{{$op}}" hx-target="#board" hx-swap="outerHTML">{{$op}}</button>
    {{end}}
  </div>
</div>
`
