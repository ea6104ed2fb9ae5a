package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nao1215/challenges/internal/challenge"
	"github.com/nao1215/challenges/internal/database"
)

// createUserResponse is the body of a successful POST /u/:user.
type createUserResponse struct {
	Username string `json:"username"`
}

func (s *Server) handleReadme(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(readmeHTML)
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	c.Status(fiber.StatusOK)
	return nil
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	lb, err := s.store.Leaderboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(lb)
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	username, err := challenge.NormalizeUsername(c.Params("user"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user := challenge.NewUser(username, s.now())
	if err := s.store.CreateUser(c.UserContext(), user); err != nil {
		if errors.Is(err, database.ErrUserExists) {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("A user with username=%s already exists.", username))
		}
		return err
	}

	s.logger.Info("user joined", "username", username)
	return c.JSON(createUserResponse{Username: username})
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	username, ok := s.lookupName(c)
	if !ok {
		return fiber.ErrNotFound
	}

	if err := s.store.DeleteUser(c.UserContext(), username); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}

	s.logger.Info("user deleted", "username", username)
	c.Status(fiber.StatusOK)
	return nil
}

func (s *Server) handlePasswords(c *fiber.Ctx) error {
	username, ok := s.lookupName(c)
	if !ok {
		return fiber.ErrNotFound
	}

	user, err := s.store.GetUser(c.UserContext(), username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}

	s.logger.Debug("generated passwords", "username", username, "count", challenge.NumPasswords)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(strings.Join(user.Passwords(), "\n"))
}

func (s *Server) handleCheck(c *fiber.Ctx) error {
	username, ok := s.lookupName(c)
	if !ok {
		return fiber.ErrNotFound
	}

	result, err := s.store.RecordCheck(c.UserContext(), username, c.Params("password"), s.now())
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	if result.Outcome != challenge.FirstSolve {
		return c.SendString(result.Outcome.String())
	}

	s.logger.Info("we have a winner",
		"username", username,
		"place", result.Place,
		"attempts", result.User.HitsBeforeSolved,
		"time_to_solve", result.User.TimeToSolve(),
	)
	return c.SendString(congratulations(result))
}

// congratulations is the body of a first correct check. Its first line is
// still the sentinel so scripts keep working.
func congratulations(result *database.CheckResult) string {
	user := result.User
	return fmt.Sprintf("%s\n\n%s, you solved it!\nYou got place %d after %d attempts.\nSend this code to redeem your prize: %s",
		challenge.SentinelCorrect,
		user.Username,
		result.Place,
		user.HitsBeforeSolved,
		challenge.RedeemCode(user.Username, result.Place),
	)
}

// lookupName normalizes the :user param. Names that could never have been
// created are reported as unknown.
func (s *Server) lookupName(c *fiber.Ctx) (string, bool) {
	username, err := challenge.NormalizeUsername(c.Params("user"))
	return username, err == nil
}

// handleError writes fiber errors as plain text and hides internal ones.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		s.logger.Error("request failed", "route", c.Route().Path, "error", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(message)
}
