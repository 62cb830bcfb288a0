package web

const pageTpl = `<!doctype html>
<html lang="pt-BR">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>podbox</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:1100px;margin:0 auto;padding:1rem 1rem 8rem}
.banner{background:#fde8e8;border:1px solid #f5b5b5;border-radius:8px;padding:8px 12px;margin-bottom:1rem}
.latest{display:grid;grid-template-columns:1fr 1fr;gap:16px}
.card{border:1px solid #ddd;border-radius:8px;padding:12px;display:flex;gap:12px;align-items:center}
.thumb{width:96px;height:96px;object-fit:cover;border-radius:8px;flex:0 0 auto}
table{width:100%;border-collapse:collapse}
td,th{padding:8px;border-bottom:1px solid #eee;text-align:left}
.title{font-weight:600}
.muted, small{color:#666}
.player{position:fixed;left:0;right:0;bottom:0;background:#8257e5;color:#fff;padding:12px 24px;display:flex;gap:16px;align-items:center}
.player button{background:transparent;border:0;color:#fff;font-size:1.1rem;cursor:pointer}
.player button:disabled{opacity:.4;cursor:default}
.player button.active{color:#04d361}
</style>
<header>
  <strong>podbox</strong>
  <form method="get" action="/" style="display:inline;margin-left:16px">
    <input type="search" name="q" value="{{.Query}}" placeholder="Search episodes" />
  </form>
  <small class="muted">catalog: {{.Status}}</small>
</header>

{{if .Error}}<div class="banner" role="alert">{{.Error}}</div>{{end}}

{{if .Query}}
<section>
  <h2>Results for "{{.Query}}"</h2>
  {{if .Matches}}
  <table>
    {{range .Matches}}
    <tr>
      <td class="title"><a href="/episodes/{{.Episode.ID}}">{{.Episode.Title}}</a></td>
      <td>{{.Episode.Members}}</td>
      <td>{{.Episode.DurationAsString}}</td>
      <td>{{template "play" .}}</td>
    </tr>
    {{end}}
  </table>
  {{else}}<small>No matches</small>{{end}}
</section>
{{end}}

<section>
  <h2>Últimos lançamentos</h2>
  <div class="latest">
  {{range .Latest}}
    <div class="card">
      {{if .Episode.Thumbnail}}<img class="thumb" src="{{.Episode.Thumbnail}}" alt="{{.Episode.Title}}" />{{end}}
      <div>
        <div class="title"><a href="/episodes/{{.Episode.ID}}">{{.Episode.Title}}</a></div>
        <small>{{.Episode.Members}}</small><br/>
        <small>{{.Episode.PublishedAt}} · {{.Episode.DurationAsString}}</small>
      </div>
      {{template "play" .}}
    </div>
  {{end}}
  </div>
</section>

<section>
  <h2>Todos episódios</h2>
  <table>
    <thead><tr><th></th><th>Podcast</th><th>Integrantes</th><th>Data</th><th>Duração</th><th></th></tr></thead>
    <tbody>
    {{range .All}}
    <tr>
      <td>{{if .Episode.Thumbnail}}<img class="thumb" style="width:40px;height:40px" src="{{.Episode.Thumbnail}}" alt="" />{{end}}</td>
      <td class="title"><a href="/episodes/{{.Episode.ID}}">{{.Episode.Title}}</a></td>
      <td>{{.Episode.Members}}</td>
      <td>{{.Episode.PublishedAt}}</td>
      <td>{{.Episode.DurationAsString}}</td>
      <td>{{template "play" .}}</td>
    </tr>
    {{end}}
    </tbody>
  </table>
</section>

<footer class="player">
  {{with .Player}}
  <div style="flex:1">
    {{if .Idle}}<span>Selecione um podcast para ouvir</span>
    {{else}}<strong>{{.Episode.Title}}</strong> <small>{{.Episode.Members}}</small>{{end}}
    <div><span>{{.ElapsedLabel}}</span> / <span>{{.DurationLabel}}</span> <small>{{.Status}}</small></div>
  </div>
  <form method="post" action="/control">
    <button name="action" value="shuffle" {{if not .Controls.Shuffle.Enabled}}disabled{{end}} {{if .Controls.Shuffle.Active}}class="active"{{end}}>shuffle</button>
    <button name="action" value="prev" {{if not .Controls.Previous.Enabled}}disabled{{end}}>prev</button>
    <button name="action" value="toggle" {{if not .Controls.PlayPause.Enabled}}disabled{{end}}>{{if .Controls.PlayPause.Active}}pause{{else}}play{{end}}</button>
    <button name="action" value="next" {{if not .Controls.Next.Enabled}}disabled{{end}}>next</button>
    <button name="action" value="loop" {{if not .Controls.Loop.Enabled}}disabled{{end}} {{if .Controls.Loop.Active}}class="active"{{end}}>loop</button>
  </form>
  {{end}}
</footer>
</html>

{{define "play"}}<form method="post" action="/play"><input type="hidden" name="section" value="{{.Section}}" /><input type="hidden" name="index" value="{{.Index}}" /><button type="submit">play</button></form>{{end}}
`

const episodeTpl = `<!doctype html>
<html lang="pt-BR">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>{{.Episode.Title}} | podbox</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:700px;margin:0 auto;padding:1rem}
.thumb{width:100%;max-height:160px;object-fit:cover;border-radius:8px}
.muted, small{color:#666}
</style>
<header><a href="/">&larr; podbox</a></header>
{{with .Episode}}
<article>
  {{if .Thumbnail}}<img class="thumb" src="{{.Thumbnail}}" alt="{{.Title}}" />{{end}}
  <h1>{{.Title}}</h1>
  <small>{{.Members}}</small><br/>
  <small>{{.PublishedAt}} · {{.DurationAsString}}</small>
  <form method="post" action="/play"><input type="hidden" name="id" value="{{.ID}}" /><button type="submit">play</button></form>
  <div class="description">{{.Description}}</div>
</article>
{{end}}
{{if not .Player.Idle}}<footer><small>Tocando agora: {{.Player.Episode.Title}} ({{.Player.ElapsedLabel}} / {{.Player.DurationLabel}})</small></footer>{{end}}
</html>
`
