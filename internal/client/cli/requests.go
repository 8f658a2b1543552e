package cli

import (
	"context"

	"github.com/dmitrijs2005/carpool/internal/client/api"
	"github.com/dmitrijs2005/carpool/internal/server/models"
)

// Request asks for a seat on a ride. The ride id may be given inline.
func (a *App) Request(ctx context.Context, args []string) error {
	rideID, err := a.argOrAsk(args, "Ride id")
	if err != nil {
		return err
	}
	me := a.session.User()
	r := api.NewRideRequest{RideID: rideID, PassengerID: me.ID, PassengerName: me.Name}

	price, err := a.ask("Offered price (empty to skip)")
	if err != nil {
		return err
	}
	if r.OfferedPrice, err = optionalFloat(price); err != nil {
		return err
	}
	if r.Comment, err = a.ask("Comment (optional)"); err != nil {
		return err
	}

	req, err := a.api.CreateRideRequest(ctx, r)
	if err != nil {
		return err
	}
	a.printf("Request %s sent, waiting for the host\n", req.ID)
	return nil
}

func (a *App) Accept(ctx context.Context, args []string) error {
	return a.resolve(ctx, args, models.StatusAccepted)
}

func (a *App) Reject(ctx context.Context, args []string) error {
	return a.resolve(ctx, args, models.StatusRejected)
}

func (a *App) resolve(ctx context.Context, args []string, status models.RequestStatus) error {
	id, err := a.argOrAsk(args, "Request id")
	if err != nil {
		return err
	}
	if err := a.api.UpdateRequestStatus(ctx, id, status); err != nil {
		return err
	}
	a.printf("Request %s %s\n", id, status)
	return nil
}

func (a *App) MyRequests(ctx context.Context) error {
	items, err := a.api.GetRequestsByPassenger(ctx, a.session.UserID())
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.println("You have not requested any rides")
		return nil
	}
	return a.printPassengerRequests(items)
}
