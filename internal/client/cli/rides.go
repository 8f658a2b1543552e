package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/carpool/internal/client/api"
	"github.com/dmitrijs2005/carpool/internal/timex"
)

// Post offers a new ride hosted by the signed-in user.
func (a *App) Post(ctx context.Context) error {
	host := a.session.User()
	r := api.NewRide{HostID: host.ID, HostName: host.Name}
	var err error

	if r.DepartureLocation, err = a.ask("From"); err != nil {
		return err
	}
	if r.DestinationLocation, err = a.ask("To"); err != nil {
		return err
	}
	when, err := a.ask("Departure time (YYYY-MM-DD HH:MM, local)")
	if err != nil {
		return err
	}
	if r.DepartureTime, err = timex.ParseFlexible(when, time.Local); err != nil {
		return err
	}
	fare, err := a.ask("Fare (empty for free)")
	if err != nil {
		return err
	}
	if r.Fare, err = optionalFloat(fare); err != nil {
		return err
	}
	seats, err := a.ask("Seats")
	if err != nil {
		return err
	}
	if r.TotalSeats, err = strconv.Atoi(seats); err != nil {
		return fmt.Errorf("%q is not a number of seats", seats)
	}

	ride, err := a.api.CreateRide(ctx, r)
	if err != nil {
		return err
	}
	a.printf("Ride %s posted\n", ride.ID)
	return nil
}

func (a *App) Browse(ctx context.Context) error {
	rides, err := a.api.GetRides(ctx)
	if err != nil {
		return err
	}
	if len(rides) == 0 {
		a.println("No rides yet")
		return nil
	}
	return a.printRides(rides)
}

// MyRides lists the user's hosted rides together with their requests.
func (a *App) MyRides(ctx context.Context) error {
	rides, err := a.api.GetRidesByHost(ctx, a.session.UserID())
	if err != nil {
		return err
	}
	if len(rides) == 0 {
		a.println("You have not posted any rides")
		return nil
	}
	for _, ride := range rides {
		a.printf("\n[%s] %s -> %s at %s, %d/%d seats left\n", ride.ID, ride.DepartureLocation, ride.DestinationLocation,
			ride.DepartureTime.Local().Format(timeLayout), ride.AvailableSeats, ride.TotalSeats)

		requests, err := a.api.GetRequestsForRide(ctx, ride.ID)
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			a.println("  no requests")
			continue
		}
		if err := a.printRequests(requests); err != nil {
			return err
		}
	}
	return nil
}
