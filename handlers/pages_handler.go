package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

const apiVersion = "0.0.91"

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>CONFUSED TOURNAMENT API</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      line-height: 1.5;
      color: #333;
      margin: 40px auto;
      max-width: 650px;
      padding: 0 10px;
      background-color: #f8f9fa;
    }
    h1 {
      font-size: 28px;
      font-weight: 600;
      color: rgb(226, 46, 46);
      margin: 30px 0 20px 0;
      padding: 15px 20px;
      border-radius: 6px;
      background: linear-gradient(135deg, #f8f9fa 0%, #e9ecef 100%);
      border-left: 5px solid rgb(226, 46, 46);
      box-shadow: 0 2px 4px rgba(0,0,0,0.05);
      text-align: center;
      letter-spacing: 0.5px;
    }
    p { font-size: 16px; color: #495057; margin: 15px 0; }
    .server-info {
      background-color: #fff;
      border: 1px solid #dee2e6;
      border-radius: 4px;
      padding: 15px;
      margin: 20px 0;
      box-shadow: 0 1px 3px rgba(0,0,0,0.05);
    }
    .server-info p { margin: 8px 0; font-size: 14px; }
    .server-info .label {
      display: inline-block;
      width: 140px;
      color: #6c757d;
      font-weight: 500;
    }
    .footer {
      margin-top: 30px;
      font-size: 13px;
      color: #6c757d;
      text-align: center;
      padding-top: 15px;
      border-top: 1px solid #dee2e6;
    }
  </style>
</head>
<body>
  <h1>Bestforia API</h1>

  <div class="server-info">
    <p><span class="label">API Version:</span> {{.Version}}</p>
    <p><span class="label">Server Time:</span> {{.ServerTime}}</p>
    <p><span class="label">Client IP:</span> {{.ClientIP}}</p>
  </div>

  <p>Thank you for using Bestforia App.</p>

  <div class="footer">
    <p>&copy; {{.Year}} Kewr Digital</p>
  </div>
</body>
</html>
`))

var notFoundTemplate = template.Must(template.New("notFound").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>404 Not Found</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Oxygen-Sans, Ubuntu, Cantarell, "Helvetica Neue", sans-serif;
      color: #444;
      background-color: #f5f5f5;
      margin: 0;
      padding: 30px;
      line-height: 1.6;
    }
    .container {
      max-width: 650px;
      margin: 0 auto;
      background-color: #fff;
      padding: 30px;
      border: 1px solid #ddd;
      box-shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
    }
    h1 {
      font-size: 24px;
      color: #d14;
      margin-top: 0;
      margin-bottom: 20px;
      padding-bottom: 10px;
      border-bottom: 1px solid #eee;
    }
    p { margin: 15px 0; }
    .details {
      background-color: #f9f9f9;
      padding: 15px;
      border: 1px solid #eee;
      margin: 20px 0;
      font-family: monospace;
      font-size: 14px;
      overflow-x: auto;
    }
    .details p { margin: 5px 0; }
    .error-code { color: #d14; font-weight: bold; }
    .home-link {
      display: inline-block;
      margin-top: 20px;
      color: #d14;
      text-decoration: none;
    }
    .home-link:hover { text-decoration: underline; }
  </style>
</head>
<body>
  <div class="container">
    <h1>404 Not Found</h1>

    <p>The requested URL <code>{{.URL}}</code> was not found on this server.</p>

    <div class="details">
      <p><span class="error-code">Error Code:</span> 404</p>
      <p><span class="error-code">Error Message:</span> Not Found</p>
      <p><span class="error-code">Remote Address:</span> {{.ClientIP}}</p>
      <p><span class="error-code">Server Time:</span> {{.ServerTime}}</p>
    </div>

    <p>We couldn't find the page you were looking for. It might have been moved, deleted, or perhaps never existed. If you believe this is an error, please contact the system administrator.</p>

    <a href="/" class="home-link">&larr; Back to Homepage</a>
  </div>
</body>
</html>
`))

// HomeHandler отдаёт информационную HTML-страницу на GET /
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	data := map[string]interface{}{
		"Version":    apiVersion,
		"ServerTime": time.Now().UTC().Format(http.TimeFormat),
		"ClientIP":   r.RemoteAddr,
		"Year":       time.Now().Year(),
	}
	if err := homeTemplate.Execute(w, data); err != nil {
		slog.Error("failed to render home page", slog.Any("error", err))
	}
}

// NotFoundHandler отдаёт стилизованную HTML-страницу 404 для всех
// незарегистрированных маршрутов.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)

	data := map[string]interface{}{
		"URL":        r.URL.Path,
		"ClientIP":   r.RemoteAddr,
		"ServerTime": time.Now().UTC().Format(http.TimeFormat),
	}
	if err := notFoundTemplate.Execute(w, data); err != nil {
		slog.Error("failed to render 404 page", slog.Any("error", err))
	}
}
