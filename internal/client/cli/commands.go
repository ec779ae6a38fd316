package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/traveljournal/internal/client/models"
	"github.com/dmitrijs2005/traveljournal/internal/client/services"
	"github.com/dmitrijs2005/traveljournal/internal/common"
)

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	refs, err := GetList(a.reader, fmt.Sprintf("Photos, one reference per line (at most %d)", models.MaxPhotos), a.out)
	if err != nil {
		return err
	}
	loc, err := GetSimpleText(a.reader, "Location as lat,lon (empty for Unknown)", a.out)
	if err != nil {
		return err
	}
	date, err := GetDate(a.reader, "Date as YYYY-MM-DD (empty for today)", a.out)
	if err != nil {
		return err
	}

	e, err := a.journal.Add(ctx, services.EntryInput{
		Title:       title,
		Description: desc,
		Photos:      refs,
		Date:        date,
		Location:    loc,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Entry %s saved offline\n", e.ID)
	if a.status.Online() {
		a.sync.Trigger(ctx)
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	list, err := a.journal.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No entries yet")
		return nil
	}
	return a.printEntries(list)
}

func (a *App) Search(ctx context.Context, text string) error {
	list, err := a.journal.Search(ctx, text)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No matching entries")
		return nil
	}
	return a.printEntries(list)
}

// Filter asks for a date range, a center point with a radius and a search
// text. Blank answers leave that criterion out.
func (a *App) Filter(ctx context.Context) error {
	var f services.EntryFilter

	from, err := GetDate(a.reader, "From date as YYYY-MM-DD (empty for any)", a.out)
	if err != nil {
		return err
	}
	to, err := GetDate(a.reader, "To date as YYYY-MM-DD (empty for any)", a.out)
	if err != nil {
		return err
	}
	if !from.IsZero() && !to.IsZero() {
		f.From = from
		// the whole last day is included
		f.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	center, err := GetSimpleText(a.reader, "Near lat,lon (empty for anywhere)", a.out)
	if err != nil {
		return err
	}
	if center != "" {
		lat, lon, ok := models.ParseLocation(center)
		if !ok {
			return fmt.Errorf("%w: invalid coordinates %q", common.ErrValidation, center)
		}
		radius, err := GetSimpleText(a.reader, "Radius in km", a.out)
		if err != nil {
			return err
		}
		km, err := strconv.ParseFloat(radius, 64)
		if err != nil || km <= 0 {
			return fmt.Errorf("%w: invalid radius %q", common.ErrValidation, radius)
		}
		f.Lat, f.Lon, f.RadiusKm = lat, lon, km
	}

	if f.Text, err = GetSimpleText(a.reader, "Text (empty for any)", a.out); err != nil {
		return err
	}

	list, err := a.journal.Filter(ctx, f)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No matching entries")
		return nil
	}
	return a.printEntries(list)
}

func (a *App) printEntries(list []*models.JournalEntry) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tSTATE\tTAGS")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format(dateLayout), e.Title, syncLabel(e), strings.Join(e.Tags, ", "))
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, id string) error {
	e, err := a.journal.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:          %s\n", e.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", e.Title)
	fmt.Fprintf(a.out, "Date:        %s\n", e.Date.Format(dateLayout))
	fmt.Fprintf(a.out, "Location:    %s\n", e.Location)
	fmt.Fprintf(a.out, "State:       %s\n", syncLabel(e))
	fmt.Fprintf(a.out, "Tags:        %s\n", strings.Join(e.Tags, ", "))
	for i, p := range e.Photos {
		fmt.Fprintf(a.out, "Photo %d:     %s\n", i+1, p)
	}
	if e.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", e.Description)
	}
	return nil
}

// Edit prompts for every field; an empty answer keeps the current value.
func (a *App) Edit(ctx context.Context, id string) error {
	cur, err := a.journal.Get(ctx, id)
	if err != nil {
		return err
	}

	in := services.EntryInput{
		Title:       cur.Title,
		Description: cur.Description,
		Photos:      cur.Photos,
		Date:        cur.Date,
		Location:    cur.Location,
	}

	if s, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", cur.Title), a.out); err != nil {
		return err
	} else if s != "" {
		in.Title = s
	}
	if s, err := GetMultiline(a.reader, "Description (empty keeps current)", a.out); err != nil {
		return err
	} else if s != "" {
		in.Description = s
	}
	if refs, err := GetList(a.reader, "Photos (empty keeps current)", a.out); err != nil {
		return err
	} else if len(refs) > 0 {
		in.Photos = refs
	}
	if s, err := GetSimpleText(a.reader, fmt.Sprintf("Location [%s]", cur.Location), a.out); err != nil {
		return err
	} else if s != "" {
		in.Location = s
	}
	if d, err := GetDate(a.reader, fmt.Sprintf("Date [%s]", cur.Date.Format(dateLayout)), a.out); err != nil {
		return err
	} else if !d.IsZero() {
		in.Date = d
	}

	if _, err := a.journal.Edit(ctx, id, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Entry %s updated, pending sync\n", id)
	if a.status.Online() {
		a.sync.Trigger(ctx)
	}
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.journal.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Entry %s deleted\n", id)
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "Delete every local entry? (yes/no)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	n, err := a.journal.Clear(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d entries deleted\n", n)
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	report, err := a.sync.SyncNow(ctx)
	if errors.Is(err, common.ErrNoConnectivity) {
		return errors.New("offline, entries will sync when connectivity returns")
	}
	if err != nil {
		return err
	}
	a.printReport(report)
	return nil
}

func (a *App) Status(_ context.Context) error {
	state := "offline"
	if a.status.Online() {
		state = "online"
	}
	fmt.Fprintf(a.out, "Connectivity: %s\n", state)

	if r := a.sync.LastReport(); r != nil {
		a.printReport(r)
	} else {
		fmt.Fprintln(a.out, "No sync pass yet")
	}

	pending := a.sync.Pending()
	if len(pending) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAILED ID\tATTEMPTS\tLAST ERROR")
	for _, it := range pending {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", it.ID, it.Attempts, it.LastError)
	}
	return tw.Flush()
}

func (a *App) printReport(r *services.PassReport) {
	fmt.Fprintf(a.out, "Last sync %s: %d synced, %d failed, %d skipped",
		r.FinishedAt.Local().Format("2006-01-02 15:04:05"), r.Synced, r.Failed, r.Skipped)
	if r.Aborted {
		fmt.Fprint(a.out, " (interrupted)")
	}
	fmt.Fprintln(a.out)
	if r.Err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", r.Err)
	}
}

func syncLabel(e *models.JournalEntry) string {
	if e.IsOffline {
		return "offline"
	}
	return "synced"
}
