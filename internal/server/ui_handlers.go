package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := jobList(s.jobManager.ListJobs()).Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

// jobList renders the index page listing every job.
func jobList(jobs []*Job) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SGA Jobs</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { padding: 0.3rem 0.8rem; border-bottom: 1px solid #ddd; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.state-failed { color: #b00; }
.state-completed { color: #070; }
</style>
</head>
<body>
<h1>SGA Jobs</h1>
`); err != nil {
			return err
		}

		if len(jobs) == 0 {
			if _, err := io.WriteString(w, "<p>No jobs yet. POST a configuration to /api/v1/jobs to start one.</p>\n"); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, "<table>\n<tr><th>ID</th><th>State</th><th>Objective</th><th>Crossover</th><th>popsize</th><th>lchrom</th><th>Generation</th><th>Max</th><th>Avg</th><th>Min</th></tr>\n"); err != nil {
				return err
			}
			for _, job := range jobs {
				if err := jobRow(job).Render(ctx, w); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</table>\n"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

func jobRow(job *Job) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := string(job.State)
		if job.Error != "" {
			state += ": " + job.Error
		}
		_, err := fmt.Fprintf(w,
			`<tr><td><a href="/api/v1/jobs/%s/status">%s</a></td><td class="state-%s">%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d/%d</td><td>%.3f</td><td>%.3f</td><td>%.3f</td></tr>`+"\n",
			templ.EscapeString(job.ID),
			templ.EscapeString(job.ID),
			templ.EscapeString(string(job.State)),
			templ.EscapeString(state),
			templ.EscapeString(job.Config.Objective),
			templ.EscapeString(job.Config.Crossover),
			job.Config.PopSize,
			job.Config.ChromLength,
			job.Generation,
			job.Config.MaxGen,
			job.Stats.Max,
			job.Stats.Avg,
			job.Stats.Min,
		)
		return err
	})
}
