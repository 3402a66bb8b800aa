package web

import (
	"html/template"

	"github.com/HartBrook/promptcraft/internal/config"
	"github.com/HartBrook/promptcraft/internal/optimize"
)

type modelOption struct {
	ID       string
	Label    string
	Selected bool
}

type notice struct {
	Level string // success, warning or error
	Text  string
}

// formValues are the inputs shown in the form.
type formValues struct {
	Prompt   string
	Settings optimize.Settings
}

// pageData is everything the page template renders.
type pageData struct {
	Snapshot    optimize.Snapshot
	Prompt      string
	Settings    optimize.Settings
	Models      []modelOption
	Rows        []optimize.Row
	Stats       optimize.TokenStats
	Notice      *notice
	Placeholder string

	MinTemperature float64
	MaxTemperature float64
	MinCount       int
	MaxCount       int
}

// newPageData builds the view of snap. A nil form shows the session's own
// prompt and settings.
func newPageData(cfg *config.Config, snap optimize.Snapshot, form *formValues) pageData {
	if form == nil {
		form = &formValues{Prompt: snap.OriginalPrompt, Settings: snap.Settings}
	}

	models := make([]modelOption, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		models = append(models, modelOption{ID: m, Label: config.ModelLabel(m), Selected: m == form.Settings.Model})
	}

	return pageData{
		Snapshot:       snap,
		Prompt:         form.Prompt,
		Settings:       form.Settings,
		Models:         models,
		Rows:           snap.Comparison(),
		Stats:          snap.Stats(),
		Placeholder:    optimize.Placeholder,
		MinTemperature: config.MinTemperature,
		MaxTemperature: config.MaxTemperature,
		MinCount:       config.MinSuggestions,
		MaxCount:       config.MaxSuggestions,
	}
}

// withOutcome attaches the notice for out, if any.
func (p pageData) withOutcome(out optimize.Outcome) pageData {
	switch out.Kind {
	case optimize.KindOK:
		if out.Message != "" {
			p.Notice = &notice{Level: "success", Text: out.Message}
		}
	case optimize.KindEmptyInput, optimize.KindNoSelection:
		p.Notice = &notice{Level: "warning", Text: out.Message}
	default:
		p.Notice = &notice{Level: "error", Text: out.Message}
	}
	return p
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>PromptCraft</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; margin: 0; }
aside { width: 260px; padding: 1rem; background: #f4f4f6; min-height: 100vh; }
main { flex: 1; padding: 1rem 2rem; max-width: 960px; }
textarea { width: 100%; min-height: 8rem; }
label { display: block; margin-top: .8rem; font-weight: 600; }
.notice { padding: .6rem 1rem; border-radius: 4px; margin: 1rem 0; }
.success { background: #e6f4ea; }
.warning { background: #fff4e5; }
.error { background: #fdecea; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #ddd; padding: .4rem; text-align: left; vertical-align: top; }
</style>
</head>
<body>
<form method="post" action="/optimize" style="display: contents">
<aside>
  <h2>Settings</h2>
  <label for="model">Choose Model</label>
  <select id="model" name="model">
  {{- range .Models}}
    <option value="{{.ID}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
  {{- end}}
  </select>
  <label for="temperature">Creativity: <output id="temperature-out">{{printf "%.1f" .Settings.Temperature}}</output></label>
  <input id="temperature" name="temperature" type="range" min="{{.MinTemperature}}" max="{{.MaxTemperature}}" step="0.1" value="{{printf "%.1f" .Settings.Temperature}}" oninput="document.getElementById('temperature-out').value = this.value">
  <label for="count">Number of Prompts</label>
  <input id="count" name="count" type="number" min="{{.MinCount}}" max="{{.MaxCount}}" value="{{.Settings.Count}}">
</aside>
<main>
  <h1>PromptCraft</h1>
  <p>Auto prompt optimizer: craft high-quality prompts.</p>
  {{- with .Notice}}
  <div class="notice {{.Level}}">{{.Text}}</div>
  {{- end}}
  <label for="prompt">Enter Your Prompt</label>
  <textarea id="prompt" name="prompt">{{.Prompt}}</textarea>
  <p><button type="submit">Optimize Prompt</button></p>
  {{- if .Snapshot.Prompts}}
  <h2>Optimized Prompts</h2>
  <fieldset>
    <div><label style="font-weight: normal"><input type="radio" name="selected" value="{{.Placeholder}}"{{if not .Snapshot.HasSelection}} checked{{end}}> {{.Placeholder}}</label></div>
    {{- range .Snapshot.Prompts}}
    <div><label style="font-weight: normal"><input type="radio" name="selected" value="{{.}}"{{if eq . $.Snapshot.Selected}} checked{{end}}> {{.}}</label></div>
    {{- end}}
  </fieldset>
  <p>
    <button type="submit" formaction="/select">Select</button>
    <button type="submit" formaction="/explain">Why is this prompt better?</button>
  </p>
  {{- if .Snapshot.HasSelection}}
  <h3>Selected Prompt</h3>
  <p>{{.Snapshot.Selected}}</p>
  {{- end}}
  {{- if .Snapshot.Explanation}}
  <h3>Explanation</h3>
  <p style="white-space: pre-wrap">{{.Snapshot.Explanation}}</p>
  <p><small>~{{.Stats.Before}} → ~{{.Stats.After}} tokens</small></p>
  {{- end}}
  <h2>Prompt Comparison</h2>
  <table>
    <thead><tr><th>#</th><th>Prompt</th><th>Word Count</th><th>Complexity Score</th><th>Tokens</th></tr></thead>
    <tbody>
    {{- range .Rows}}
      <tr><td>{{.Index}}</td><td>{{.Text}}</td><td>{{.WordCount}}</td><td>{{.ComplexityScore}}</td><td>{{.Tokens}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  {{- else}}
  <p class="empty">Enter a prompt and click Optimize to begin.</p>
  {{- end}}
</main>
</form>
</body>
</html>
`
