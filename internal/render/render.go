// Package render turns normalized query results into HTML fragments for
// htmx swaps and into plain text for terminals.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/ziadkadry99/partscope/internal/catalog"
	"github.com/ziadkadry99/partscope/internal/keystore"
)

const (
	DefaultListLimit = 6
	DefaultTableRows = 15
	DefaultFilterURL = "/components"
)

// Options control how much of a result is shown.
type Options struct {
	ListLimit int
	TableRows int
	FilterURL string
	KeyPrefix string
	Title     string
}

// Renderer executes the fragment templates. It is safe for concurrent use.
type Renderer struct {
	opts Options
	tmpl *template.Template
	md   goldmark.Markdown
}

// New parses the templates. Zero options take their defaults.
func New(opts Options) *Renderer {
	if opts.ListLimit <= 0 {
		opts.ListLimit = DefaultListLimit
	}
	if opts.TableRows <= 0 {
		opts.TableRows = DefaultTableRows
	}
	if opts.FilterURL == "" {
		opts.FilterURL = DefaultFilterURL
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = keystore.DefaultPrefix
	}
	if opts.Title == "" {
		opts.Title = "Библиотека электронных компонентов"
	}

	funcs := template.FuncMap{
		"upper":     strings.ToUpper,
		"num":       formatNumber,
		"volts":     func(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) },
		"amps":      func(v float64) string { return fmt.Sprintf("%.2e", v) },
		"detailURL": DetailURL,
		"askURL":    AskURL,
	}
	tmpl := template.Must(template.New("fragments").Funcs(funcs).Parse(fragmentTemplates))
	template.Must(tmpl.New("page").Parse(pageTemplate))

	return &Renderer{opts: opts, tmpl: tmpl, md: newMarkdown()}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// DetailURL is the component page of id.
func DetailURL(id string) string {
	return "/component/" + url.PathEscape(id)
}

// AskURL is the endpoint that pre-fills a follow-up question about id.
func AskURL(id string) string {
	return "/ask?component=" + url.QueryEscape(id)
}

// AskQuestion is the follow-up question asked about a component.
func AskQuestion(id string) string {
	return fmt.Sprintf("Расскажи подробно о компоненте %s, его параметрах и применении", id)
}

type cardView struct {
	ID     string
	Name   string
	Type   string
	Origin string
	Params catalog.Params
}

type listView struct {
	Explanation string
	Count       int
	Cards       []cardView
	More        bool
	FilterURL   string
}

type curveView struct {
	Explanation string
	ComponentID string
	Total       int
	Rows        []catalog.Point
	Remaining   int
	Chart       string
}

type detailView struct {
	Explanation string
	C           *catalog.Component
}

type rawView struct {
	Explanation string
	JSON        string
}

type chatView struct {
	Question string
	Answer   template.HTML
}

// Result renders res in the order failure, chat answer, component list,
// characteristic, single component, raw JSON.
func (r *Renderer) Result(w io.Writer, question string, res catalog.QueryResult) error {
	if !res.Success {
		return r.Error(w, res.Error)
	}
	if res.Result == nil {
		return r.Chat(w, question, res.Response)
	}

	explanation := ""
	if res.Command != nil {
		explanation = res.Command.Explanation
	}

	switch res.Result.Kind {
	case catalog.KindList:
		return r.List(w, explanation, res.Result)
	case catalog.KindCurve:
		return r.Curve(w, explanation, res.Result)
	case catalog.KindDetail:
		return r.tmpl.ExecuteTemplate(w, "detail", detailView{Explanation: explanation, C: res.Result.Component})
	default:
		return r.tmpl.ExecuteTemplate(w, "raw", rawView{Explanation: explanation, JSON: prettyJSON(res.Result.Raw)})
	}
}

// List renders a component list. Only the first ListLimit components get a
// card; a link to the filter search covers the rest.
func (r *Renderer) List(w io.Writer, explanation string, res *catalog.SearchResult) error {
	v := listView{Explanation: explanation, Count: res.Count, FilterURL: r.opts.FilterURL}
	if res.Count > 0 {
		for i, c := range res.Components {
			if i == r.opts.ListLimit {
				break
			}
			v.Cards = append(v.Cards, cardView{
				ID:     c.ID,
				Name:   c.Name,
				Type:   c.Type,
				Origin: strings.ToUpper(c.Origin),
				Params: c.Params,
			})
		}
	}
	v.More = res.Count > len(v.Cards) && res.Count > r.opts.ListLimit
	return r.tmpl.ExecuteTemplate(w, "list", v)
}

// Curve renders a characteristic table of the first TableRows points and
// hands the complete list to the chart.
func (r *Renderer) Curve(w io.Writer, explanation string, res *catalog.SearchResult) error {
	return r.tmpl.ExecuteTemplate(w, "curve", r.curveView(explanation, res))
}

func (r *Renderer) curveView(explanation string, res *catalog.SearchResult) curveView {
	id := res.ComponentID
	if id == "" {
		id = "Неизвестный"
	}
	points := res.Characteristics

	v := curveView{Explanation: explanation, ComponentID: id, Total: len(points)}
	if len(points) == 0 {
		return v
	}
	v.Rows = points
	if len(points) > r.opts.TableRows {
		v.Rows = points[:r.opts.TableRows]
		v.Remaining = len(points) - r.opts.TableRows
	}
	v.Chart = NewChartData(id, points).JSON()
	return v
}

// Chat renders the question and the markdown-formatted answer.
func (r *Renderer) Chat(w io.Writer, question, answer string) error {
	return r.tmpl.ExecuteTemplate(w, "chat", chatView{Question: question, Answer: r.Markdown(answer)})
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// formatNumber prints a parameter the way it was given, without trailing
// zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
