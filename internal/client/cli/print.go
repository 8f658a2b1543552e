package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/carpool/internal/server/models"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// ask prompts for one line of text.
func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) argOrAsk(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.ask(prompt)
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func table(a *App, header string, rows [][]string) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (a *App) printRides(rides []models.Ride) error {
	out := make([][]string, 0, len(rides))
	for _, r := range rides {
		out = append(out, []string{
			r.ID, r.HostName, r.DepartureLocation, r.DestinationLocation,
			r.DepartureTime.Local().Format(timeLayout), money(r.Fare),
			fmt.Sprintf("%d/%d", r.AvailableSeats, r.TotalSeats),
		})
	}
	return table(a, "ID\tHOST\tFROM\tTO\tDEPARTS\tFARE\tSEATS", out)
}

func (a *App) printRequests(requests []models.RideRequest) error {
	out := make([][]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, []string{
			"  " + r.ID, r.PassengerName, money(r.OfferedPrice), string(r.Status), r.Comment,
		})
	}
	return table(a, "  REQUEST\tPASSENGER\tOFFER\tSTATUS\tCOMMENT", out)
}

func (a *App) printPassengerRequests(items []models.PassengerRequest) error {
	out := make([][]string, 0, len(items))
	for _, it := range items {
		out = append(out, []string{
			it.Request.ID, it.Ride.DepartureLocation + " -> " + it.Ride.DestinationLocation,
			it.Ride.DepartureTime.Local().Format(timeLayout), money(it.Request.OfferedPrice), string(it.Request.Status),
		})
	}
	return table(a, "REQUEST\tRIDE\tDEPARTS\tOFFER\tSTATUS", out)
}
