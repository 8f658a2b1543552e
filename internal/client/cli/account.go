package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/carpool/internal/client/api"
	"github.com/dmitrijs2005/carpool/internal/common"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) Signup(ctx context.Context) error {
	var u api.NewUser
	var err error

	if u.ErpID, err = a.ask("ERP id"); err != nil {
		return err
	}
	if existing, err := a.api.FindUserByERP(ctx, u.ErpID); err != nil {
		return err
	} else if existing != nil {
		return errors.New("an account with this ERP id already exists")
	}

	if u.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if existing, err := a.api.FindUserByEmail(ctx, u.Email); err != nil {
		return err
	} else if existing != nil {
		return errors.New("an account with this email already exists")
	}

	if u.Name, err = a.ask("Full name"); err != nil {
		return err
	}
	if u.Gender, err = a.ask("Gender"); err != nil {
		return err
	}
	year, err := a.ask("Graduating year")
	if err != nil {
		return err
	}
	if u.GraduatingYear, err = strconv.Atoi(year); err != nil {
		return fmt.Errorf("%q is not a year", year)
	}
	if u.ContactNumber, err = a.ask("Contact number"); err != nil {
		return err
	}

	pw, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	u.Password = string(pw)

	if u.SecQuestion1, err = a.ask("Security question 1"); err != nil {
		return err
	}
	if u.SecAnswer1, err = a.ask("Answer 1"); err != nil {
		return err
	}
	if u.SecQuestion2, err = a.ask("Security question 2"); err != nil {
		return err
	}
	if u.SecAnswer2, err = a.ask("Answer 2"); err != nil {
		return err
	}

	if _, err := a.api.CreateUser(ctx, u); err != nil {
		return err
	}
	user, err := a.api.Login(ctx, u.Email, u.Password)
	if err != nil {
		return err
	}
	a.session.Start(user)
	a.printf("Welcome, %s! Your account is ready.\n", user.Name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	pw, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, err := a.api.Login(ctx, email, string(pw))
	if err != nil {
		return err
	}
	a.session.Start(user)
	a.printf("Logged in as %s\n", user.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.session.End()
	a.println("Logged out")
	return nil
}

// Forgot resets a password after answering both security questions.
func (a *App) Forgot(ctx context.Context) error {
	erp, err := a.ask("ERP id")
	if err != nil {
		return err
	}
	questions, err := a.api.SecurityQuestions(ctx, erp)
	if err != nil {
		return err
	}

	answer1, err := a.ask(questions[0])
	if err != nil {
		return err
	}
	answer2, err := a.ask(questions[1])
	if err != nil {
		return err
	}
	pw, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.api.ResetPassword(ctx, erp, answer1, answer2, string(pw)); err != nil {
		return err
	}
	a.println("Password reset, you can log in now")
	return nil
}

func (a *App) Passwd(ctx context.Context) error {
	current, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	pw, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.api.UpdatePassword(ctx, a.session.UserID(), string(current), string(pw)); err != nil {
		return err
	}
	a.println("Password updated")
	return nil
}

// newPassword reads a password twice and returns it when both match.
func (a *App) newPassword() ([]byte, error) {
	pw, err := getPassword(a.out, "New password")
	if err != nil {
		return nil, err
	}
	again, err := getPassword(a.out, "Repeat password")
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if string(pw) != string(again) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}
