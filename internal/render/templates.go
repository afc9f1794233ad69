package render

// fragmentTemplates holds every htmx fragment the page swaps in.
const fragmentTemplates = `
{{define "result-header"}}
  <div class="d-flex justify-content-between align-items-center mb-3">
    <h5><i class="fas fa-robot"></i> Результат запроса</h5>
    <button type="button" class="btn btn-sm btn-outline-secondary" data-copy-result>
      <i class="fas fa-copy"></i> Копировать
    </button>
  </div>
  {{if .}}<p class="text-muted mb-3"><small>{{.}}</small></p>{{end}}
  <hr>
{{end}}

{{define "list"}}
<div class="ai-response">
  {{template "result-header" .Explanation}}
  <div class="alert alert-info">
    <i class="fas fa-microchip"></i> Найдено компонентов: <strong>{{.Count}}</strong>
  </div>
  {{if .Cards}}
  <div class="row mt-3">
    {{range .Cards}}
    <div class="col-md-6 mb-3">
      <div class="card h-100 component-card" data-component-id="{{.ID}}">
        <div class="card-body">
          <h6 class="card-title">{{.ID}}</h6>
          <p class="card-text small">{{.Name}}</p>
          <div class="mt-2">
            <span class="badge bg-secondary">{{.Type}}</span>
            {{if .Origin}}<span class="badge bg-info">{{.Origin}}</span>{{end}}
          </div>
          <div class="mt-2">
            <small class="text-muted">
              I<sub>max</sub>: {{num .Params.Imax}}A<br>
              U<sub>ce</sub>: {{num .Params.UceMax}}V<br>
              P<sub>tot</sub>: {{num .Params.Ptot}}W
            </small>
          </div>
        </div>
        <div class="card-footer">
          <a href="{{detailURL .ID}}" class="btn btn-sm btn-outline-primary">
            <i class="fas fa-eye"></i> Подробнее
          </a>
          {{template "ask-button" .ID}}
        </div>
      </div>
    </div>
    {{end}}
  </div>
  {{if .More}}
  <div class="mt-3 text-center">
    <a href="{{.FilterURL}}" class="btn btn-outline-secondary">Показать все {{.Count}} компонентов</a>
  </div>
  {{end}}
  {{end}}
</div>
{{end}}

{{define "ask-button"}}
<button type="button" class="btn btn-sm btn-outline-info ms-1"
        hx-post="{{askURL .}}" hx-target="#ai-query-input" hx-swap="outerHTML">
  <i class="fas fa-robot"></i> Спросить ИИ
</button>
{{end}}

{{define "curve-body"}}
  <div class="alert alert-success">
    <i class="fas fa-chart-line"></i> Характеристики компонента <strong>{{.ComponentID}}</strong>
    <span class="badge bg-secondary ms-2">{{.Total}} точек</span>
  </div>
  {{if .Rows}}
  <h6>ВАХ (вольт-амперная характеристика):</h6>
  <div class="table-responsive">
    <table class="table table-sm table-striped vah-table">
      <thead class="table-dark">
        <tr><th>Напряжение (V)</th><th>Ток (A)</th></tr>
      </thead>
      <tbody>
        {{range .Rows}}<tr><td>{{volts .Voltage}}</td><td>{{amps .Current}}</td></tr>
        {{end}}
      </tbody>
    </table>
  </div>
  {{if .Remaining}}<p class="text-muted vah-more">... и еще {{.Remaining}} точек</p>{{end}}
  <canvas class="vah-chart" height="320" data-chart="{{.Chart}}"></canvas>
  {{else}}
  <div class="alert alert-warning">
    <i class="fas fa-exclamation-triangle"></i> Нет данных о характеристиках
  </div>
  {{end}}
{{end}}

{{define "curve"}}
<div class="ai-response">
  {{template "result-header" .Explanation}}
  {{template "curve-body" .}}
  {{if .Rows}}
  <div class="mt-3">
    <a href="{{detailURL .ComponentID}}" class="btn btn-primary">
      <i class="fas fa-external-link-alt"></i> Перейти к графику ВАХ
    </a>
  </div>
  {{end}}
</div>
{{end}}

{{define "detail"}}
<div class="ai-response">
  {{template "result-header" .Explanation}}
  <div class="card mb-3">
    <div class="card-header bg-primary text-white">
      <i class="fas fa-info-circle"></i> Информация о компоненте
    </div>
    <div class="card-body">
      <h5>{{.C.ID}} - {{.C.Name}}</h5>
      <p>{{.C.Description}}</p>
      <div class="row mt-3">
        <div class="col-md-6">
          <h6>Основные данные:</h6>
          <ul class="list-unstyled">
            <li><strong>Тип:</strong> <span class="badge bg-secondary">{{.C.Type}}</span></li>
            {{if .C.Origin}}<li><strong>Происхождение:</strong> <span class="badge bg-info">{{upper .C.Origin}}</span></li>{{end}}
          </ul>
        </div>
        <div class="col-md-6">
          <h6>Параметры:</h6>
          <ul class="list-unstyled">
            {{if .C.Params.Imax}}<li><strong>Макс. ток:</strong> {{num .C.Params.Imax}} A</li>{{end}}
            {{if .C.Params.UceMax}}<li><strong>Макс. напряжение:</strong> {{num .C.Params.UceMax}} V</li>{{end}}
            {{if .C.Params.Ptot}}<li><strong>Макс. мощность:</strong> {{num .C.Params.Ptot}} W</li>{{end}}
          </ul>
        </div>
      </div>
      <div class="mt-3">
        <a href="{{detailURL .C.ID}}" class="btn btn-primary me-2">
          <i class="fas fa-chart-line"></i> График ВАХ
        </a>
        {{template "ask-button" .C.ID}}
      </div>
    </div>
  </div>
</div>
{{end}}

{{define "raw"}}
<div class="ai-response">
  {{template "result-header" .Explanation}}
  <div class="alert alert-secondary">
    <pre class="mb-0">{{.JSON}}</pre>
  </div>
</div>
{{end}}

{{define "chat"}}
<div class="ai-response chat-response">
  {{template "result-header" ""}}
  <div class="chat-question mb-3">
    <span class="badge bg-primary">Вопрос</span> {{.Question}}
  </div>
  <div class="chat-answer">{{.Answer}}</div>
  <p class="text-muted small mt-2">Ответ от OpenRouter</p>
</div>
{{end}}

{{define "error"}}
<div class="alert alert-{{.Level}} ai-error" data-error-kind="{{.Kind}}">
  <div class="d-flex">
    <div class="me-3"><i class="fas fa-exclamation-triangle fa-2x"></i></div>
    <div>
      <h5 class="alert-heading">{{.Title}}</h5>
      <p class="mb-2">{{.Message}}</p>
      <hr>
      <p class="small mb-2">{{.Hint}}</p>
      <div class="small">
        <strong>Что можно сделать:</strong>
        <ol class="mb-0">
          <li>Проверьте API ключ OpenRouter</li>
          <li>Убедитесь, что локальный сервер запущен</li>
          <li>Попробуйте более простой запрос</li>
        </ol>
      </div>
    </div>
  </div>
</div>
<div class="text-center mt-3">
  <button type="button" class="btn btn-outline-warning me-2" data-focus="#openrouter-api-key">
    <i class="fas fa-key"></i> Указать API ключ
  </button>
  <a href="{{.FilterURL}}" class="btn btn-outline-primary">
    <i class="fas fa-search"></i> Поиск компонентов
  </a>
</div>
{{end}}

{{define "status-badge"}}
<span id="ai-status-badge" class="badge bg-{{.Color}}"{{if .OOB}} hx-swap-oob="true"{{end}} data-mode="{{.Mode}}">
  <i class="fas fa-robot"></i> {{.Label}}
</span>
{{end}}

{{define "status-panel"}}
<div id="ai-status-panel" class="card"{{if .OOB}} hx-swap-oob="true"{{end}} hx-get="/status" hx-trigger="every 30s" hx-swap="none">
  <div class="card-body small">
    <div>Локальный поиск:
      {{if .BackendAvailable}}<span class="badge bg-success">Доступен</span>{{else}}<span class="badge bg-danger">Недоступен</span>{{end}}
    </div>
    <div>API ключ:
      {{if .HasKey}}<span class="badge bg-success">Установлен</span>{{else}}<span class="badge bg-secondary">Не установлен</span>{{end}}
    </div>
    <div>Режим: <span class="badge bg-{{.Color}}">{{.Label}}</span></div>
  </div>
</div>
{{end}}

{{define "toast"}}
<div class="alert alert-{{.Level}} alert-dismissible fade show toast-message" role="alert" data-dismiss-after="{{.DismissMillis}}">
  <i class="fas fa-{{.Icon}}"></i> {{.Message}}
  <button type="button" class="btn-close" data-bs-dismiss="alert" aria-label="Закрыть"></button>
</div>
{{end}}

{{define "toasts-oob"}}
<div id="toast-container" hx-swap-oob="beforeend">{{range .}}{{template "toast" .}}{{end}}</div>
{{end}}

{{define "history"}}
<div id="query-history"{{if .OOB}} hx-swap-oob="true"{{end}}>
  {{if .Items}}
  <h6>История запросов:</h6>
  <ul class="list-group small">
    {{range .Items}}
    <li class="list-group-item list-group-item-action"
        hx-get="/history/{{.Index}}" hx-target="#ai-query-input" hx-swap="outerHTML">
      <div class="d-flex justify-content-between">
        <span class="text-truncate" style="max-width: 250px;">{{.Query}}</span>
        <span class="badge bg-{{if .Success}}success{{else}}danger{{end}}">{{.Count}}</span>
      </div>
      <small class="text-muted">{{.When}}</small>
    </li>
    {{end}}
  </ul>
  {{end}}
</div>
{{end}}

{{define "query-input"}}
<input type="text" id="ai-query-input" name="query" class="form-control"
       placeholder="Например: КТ315 характеристики или объясни, как работает триод"
       value="{{.}}" autocomplete="off" autofocus>
{{end}}

{{define "autosubmit"}}
<div id="ai-autosubmit" hx-swap-oob="true" hx-post="/query" hx-include="#ai-query-input"
     hx-target="#ai-results" hx-trigger="load delay:500ms"></div>
{{end}}

{{define "key-form"}}
<form id="api-key-form" class="input-group" hx-post="/key" hx-target="this" hx-swap="outerHTML">
  {{if .HasKey}}
  <input type="password" id="openrouter-api-key" name="api_key" class="form-control" value="{{.Value}}" readonly>
  <button type="button" class="btn btn-outline-success" hx-post="/key/validate" hx-swap="none">Проверить</button>
  <button type="button" class="btn btn-outline-danger" hx-delete="/key" hx-target="#api-key-form" hx-swap="outerHTML">Удалить</button>
  {{else}}
  <input type="text" id="openrouter-api-key" name="api_key" class="form-control" placeholder="{{.Prefix}}..." value="" autocomplete="off">
  <button type="submit" class="btn btn-outline-primary">Сохранить</button>
  {{end}}
</form>
{{end}}
`

// pageTemplate is the full page around the fragments.
const pageTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@fortawesome/fontawesome-free@6.5.2/css/all.min.css">
  <script src="https://unpkg.com/htmx.org@1.9.12"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.3/dist/chart.umd.min.js"></script>
  <script src="/static/app.js" defer></script>
</head>
<body>
  <nav class="navbar navbar-dark bg-dark mb-4">
    <div class="container">
      <a class="navbar-brand" href="/"><i class="fas fa-microchip"></i> {{.Title}}</a>
      {{template "status-badge" .Status}}
    </div>
  </nav>
  <div id="toast-container" class="position-fixed top-0 end-0 p-3" style="z-index: 1080;">
    {{range .Toasts}}{{template "toast" .}}{{end}}
  </div>
  {{if .AutoSubmit}}<div id="ai-autosubmit" hx-post="/query" hx-include="#ai-query-input"
       hx-target="#ai-results" hx-trigger="load delay:500ms"></div>{{else}}<div id="ai-autosubmit"></div>{{end}}
  <main class="container">
    {{if .Detail}}
    <div class="ai-response">{{template "curve-body" .Detail}}</div>
    <div class="mt-3">
      <a href="/?component={{.Detail.ComponentID}}" class="btn btn-success">
        <i class="fas fa-robot"></i> Спросить ИИ о компоненте
      </a>
      <a href="/" class="btn btn-outline-secondary ms-2"><i class="fas fa-home"></i> На главную</a>
    </div>
    {{else if .DetailError}}
    {{template "error" .DetailError}}
    {{else}}
    <div class="row">
      <div class="col-lg-8">
        <form id="ai-query-form" hx-post="/query" hx-target="#ai-results" hx-swap="innerHTML"
              hx-disabled-elt="#ai-query-submit" hx-indicator="#ai-query-spinner">
          <div class="input-group mb-3">
            {{template "query-input" .Query}}
            <button type="submit" id="ai-query-submit" class="btn btn-primary">
              <i class="fas fa-paper-plane"></i> Спросить
            </button>
          </div>
        </form>
        <div id="ai-query-spinner" class="htmx-indicator text-muted small mb-2">Обработка запроса...</div>
        <div id="ai-results"></div>
      </div>
      <div class="col-lg-4">
        {{template "status-panel" .Status}}
        <h6 class="mt-3">API ключ OpenRouter</h6>
        {{template "key-form" .Key}}
        <div class="mt-3">{{template "history" .History}}</div>
      </div>
    </div>
    {{end}}
  </main>
</body>
</html>
`
