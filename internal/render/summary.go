package render

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/partscope/internal/catalog"
)

// Text summarizes res for a terminal or an agent. Chat answers are
// returned as the model wrote them.
func (r *Renderer) Text(res catalog.QueryResult) string {
	var b strings.Builder

	if !res.Success {
		kind, _ := ClassifyError(res.Error)
		fmt.Fprintf(&b, "Ошибка (%s, %s): %s\n", res.Mode, kind, res.Error)
		return b.String()
	}
	if res.Result == nil {
		b.WriteString(strings.TrimSpace(res.Response))
		b.WriteString("\n")
		return b.String()
	}

	if res.Command != nil && res.Command.Explanation != "" {
		fmt.Fprintf(&b, "%s\n\n", res.Command.Explanation)
	}

	switch res.Result.Kind {
	case catalog.KindList:
		fmt.Fprintf(&b, "Найдено компонентов: %d\n", res.Result.Count)
		for i, c := range res.Result.Components {
			if i == r.opts.ListLimit {
				break
			}
			fmt.Fprintf(&b, "- %s  %s  [%s", c.ID, c.Name, c.Type)
			if c.Origin != "" {
				fmt.Fprintf(&b, "/%s", strings.ToUpper(c.Origin))
			}
			fmt.Fprintf(&b, "]  Imax=%sA Uce=%sV Ptot=%sW\n",
				formatNumber(c.Params.Imax), formatNumber(c.Params.UceMax), formatNumber(c.Params.Ptot))
		}
		if shown := min(len(res.Result.Components), r.opts.ListLimit); res.Result.Count > shown {
			fmt.Fprintf(&b, "... и еще %d\n", res.Result.Count-shown)
		}
	case catalog.KindCurve:
		v := r.curveView("", res.Result)
		fmt.Fprintf(&b, "Характеристики компонента %s: %d точек\n", v.ComponentID, v.Total)
		if v.Total == 0 {
			b.WriteString("Нет данных о характеристиках\n")
			break
		}
		fmt.Fprintf(&b, "%12s  %12s\n", "U, V", "I, A")
		for _, p := range v.Rows {
			fmt.Fprintf(&b, "%12.3f  %12.2e\n", p.Voltage, p.Current)
		}
		if v.Remaining > 0 {
			fmt.Fprintf(&b, "... и еще %d точек\n", v.Remaining)
		}
	case catalog.KindDetail:
		c := res.Result.Component
		fmt.Fprintf(&b, "%s - %s\n", c.ID, c.Name)
		if c.Description != "" {
			fmt.Fprintf(&b, "%s\n", c.Description)
		}
		fmt.Fprintf(&b, "Тип: %s", c.Type)
		if c.Origin != "" {
			fmt.Fprintf(&b, ", происхождение: %s", strings.ToUpper(c.Origin))
		}
		fmt.Fprintf(&b, "\nImax=%sA Uce=%sV Ptot=%sW\n",
			formatNumber(c.Params.Imax), formatNumber(c.Params.UceMax), formatNumber(c.Params.Ptot))
	default:
		b.WriteString(prettyJSON(res.Result.Raw))
		b.WriteString("\n")
	}
	return b.String()
}
