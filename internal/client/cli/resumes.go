package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/resumebuilder/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func oneID(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", usageError(usage)
	}
	return args[0], nil
}

// List prints one page of the user's resumes: list [status] [page].
func (a *App) List(ctx context.Context, args []string) error {
	var (
		status string
		page   int
	)
	if len(args) > 2 {
		return usageError("list [draft|published|archived] [page]")
	}
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			page = n
			continue
		}
		status = arg
	}

	p, err := a.resumes.List(ctx, status, page)
	if err != nil {
		return err
	}
	if len(p.Data) == 0 {
		fmt.Fprintln(a.out, "No resumes")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tUPDATED")
	for _, r := range p.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Status, r.Title, r.UpdatedAt.Local().Format(timeLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d of %d, %d total\n", p.Page, p.TotalPages, p.Total)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := oneID(args, "show <id>")
	if err != nil {
		return err
	}
	r, err := a.resumes.Show(ctx, id)
	if err != nil {
		return err
	}
	return a.printResume(r)
}

// Create posts a draft: create <title words...> [content.json].
func (a *App) Create(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("create <title> [content.json]")
	}
	var path string
	if last := args[len(args)-1]; strings.HasSuffix(strings.ToLower(last), ".json") {
		path = last
		args = args[:len(args)-1]
	}
	if len(args) == 0 {
		return usageError("create <title> [content.json]")
	}

	r, err := a.resumes.Create(ctx, strings.Join(args, " "), path)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", r.ID, r.Status)
	return nil
}

func (a *App) Publish(ctx context.Context, args []string) error {
	id, err := oneID(args, "publish <id>")
	if err != nil {
		return err
	}
	r, err := a.resumes.Publish(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Published %s\n", r.ID)
	if r.ShareURL != nil {
		fmt.Fprintf(a.out, "Share URL: %s\n", *r.ShareURL)
	}
	return nil
}

func (a *App) Archive(ctx context.Context, args []string) error {
	id, err := oneID(args, "archive <id>")
	if err != nil {
		return err
	}
	r, err := a.resumes.Archive(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Archived %s\n", r.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := oneID(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.resumes.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", id)
	return nil
}

// Public fetches a published resume without credentials.
func (a *App) Public(ctx context.Context, args []string) error {
	id, err := oneID(args, "public <id>")
	if err != nil {
		return err
	}
	r, err := a.resumes.Public(ctx, id)
	if err != nil {
		return err
	}
	return a.printResume(r)
}

func (a *App) printResume(r *models.Resume) error {
	fmt.Fprintf(a.out, "ID:      %s\n", r.ID)
	fmt.Fprintf(a.out, "Title:   %s\n", r.Title)
	fmt.Fprintf(a.out, "Status:  %s\n", r.Status)
	fmt.Fprintf(a.out, "Views:   %d\n", r.ViewCount)
	if r.ShareURL != nil {
		fmt.Fprintf(a.out, "Share:   %s\n", *r.ShareURL)
	}
	fmt.Fprintf(a.out, "Updated: %s\n", r.UpdatedAt.Local().Format(timeLayout))

	if len(r.Content) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Content, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(a.out, buf.String())
	return nil
}
