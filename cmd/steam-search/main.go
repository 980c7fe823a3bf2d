package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	panelsvc "steam_search_backend/internal/panel/service"
	"steam_search_backend/internal/steam/client"
	steamsvc "steam_search_backend/internal/steam/service"
	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"
)

const usage = `Type to search the Steam store (at least 2 characters).
  :open <n>   show details for result n
  :close      close the detail view
  :copy       print the app id of the open detail view
  :quit       exit`

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// stdout belongs to the panel; logs go to stderr.
	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	// Interrupts are not trapped: the scanner blocks on stdin and Ctrl+C
	// should exit immediately.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := steamsvc.New(client.New(cfg, log), log)
	session := panelsvc.NewSession(ctx, svc, log)
	defer session.Close()

	updates, unsubscribe := session.Store.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		render(os.Stdout, updates)
	}()

	fmt.Println(usage)
	runCommands(ctx, os.Stdin, os.Stdout, session)

	unsubscribe()
	<-done
}

func runCommands(ctx context.Context, in io.Reader, out io.Writer, session *panelsvc.Session) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch cmd {
		case ":quit", ":q":
			return
		case ":close":
			session.CloseDetail()
		case ":copy":
			if detail := session.Store.Snapshot().Detail; detail != nil {
				fmt.Fprintln(out, detail.AppID)
			}
		case ":open":
			items := session.Store.Snapshot().Items
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil || n < 1 || n > len(items) {
				fmt.Fprintf(out, "no result %q\n", arg)
				continue
			}
			item := items[n-1]
			_ = session.OpenDetail(panelsvc.Target{AppID: item.ID, Name: item.Name, Price: item.Price})
		default:
			_ = session.SetQuery(line)
		}
	}
}

// render prints the grid or the detail view whenever the visible part of the
// state changes.
func render(out io.Writer, updates <-chan panelsvc.Snapshot) {
	var last string
	for snap := range updates {
		view := format(snap)
		if view == last {
			continue
		}
		last = view
		fmt.Fprint(out, view)
	}
}

func format(snap panelsvc.Snapshot) string {
	var b strings.Builder

	if snap.Detail != nil {
		b.WriteString("\n")
		b.WriteString(panelsvc.RenderDetailMarkdown(snap.Detail))
		b.WriteString("\n")
		for _, entry := range panelsvc.Metadata(snap.Detail) {
			if entry.Title == "" {
				continue
			}
			value := entry.Text
			if entry.Target != "" {
				value = entry.Text + ": " + entry.Target
			}
			fmt.Fprintf(&b, "  %-16s %s\n", entry.Title, value)
		}
		if snap.Detail.Loading {
			b.WriteString("  (loading)\n")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "\n[%s]", snap.Query)
	if snap.SearchLoading {
		b.WriteString(" searching...")
	}
	b.WriteString("\n")
	for i, item := range snap.Items {
		fmt.Fprintf(&b, "%3d. %-48s %s\n", i+1, item.Name, item.Price)
	}
	return b.String()
}
