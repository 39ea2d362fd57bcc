package apisvc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/core/flag"
	"github.com/trezcool/projectgl/core/user"
)

// Messages shown when a flag operation fails or has nothing to do.
const (
	MsgNoChange             = "Aucun changement à enregistrer"
	MsgFlagCreateFailed     = "Erreur lors de la création du flag"
	MsgFlagListFailed       = "Erreur lors de la récupération des flags"
	MsgUserFlagListFailed   = "Erreur lors de la récupération des flags des utilisateurs"
	MsgUserFlagDeleteFailed = "Erreur lors de la suppression du UserFlag"
	MsgFlagDeleteFailed     = "Erreur lors de la suppression du flag"
	MsgValidateFailed       = "Erreur lors de la validation du UserFlag"
	MsgAllValidatedFailed   = "Erreur lors de la vérification de la validation des UserFlags"
)

// FlagService handles team switch requests. Unlike most services its failures are
// returned, after an error notification.
type FlagService struct {
	client *Client
}

func NewFlagService(c *Client) *FlagService {
	return &FlagService{client: c}
}

func (s *FlagService) toast(msg string, err error) {
	s.client.logger.Error(msg, err)
	if s.client.notifier != nil {
		s.client.notifier.Error(msg)
	}
}

func (s *FlagService) Create(ctx context.Context, f flag.Flag) (flag.Flag, error) {
	if err := s.client.Validate(f); err != nil {
		return flag.Flag{}, err
	}
	var created *flag.Flag
	if err := s.client.post(ctx, "/flags", nil, f, &created); err != nil {
		return flag.Flag{}, err
	}
	if created == nil {
		return flag.Flag{}, errors.New("backend returned no flag")
	}
	return *created, nil
}

// CreateUserFlags creates one user flag per member of both teams of f. When the backend
// refuses them, f is deleted.
func (s *FlagService) CreateUserFlags(ctx context.Context, f flag.Flag, changed []user.User) ([]flag.NewUserFlag, error) {
	ufs := flag.UserFlags(f, changed)
	if len(ufs) == 0 {
		if s.client.notifier != nil {
			s.client.notifier.Success(MsgNoChange)
		}
		return ufs, nil
	}

	if err := s.client.post(ctx, "/userFlags", nil, ufs, nil); err != nil {
		if delErr := s.Delete(ctx, f.ID); delErr != nil {
			s.client.logger.Error("Error while deleting flag", delErr)
		}
		s.toast(MsgFlagCreateFailed, err)
		return nil, err
	}
	return ufs, nil
}

func (s *FlagService) ByID(ctx context.Context, id int) (flag.Flag, error) {
	var f flag.Flag
	if err := s.client.get(ctx, fmt.Sprintf("/flags/%d", id), nil, &f); err != nil {
		s.client.logger.Error("Error while fetching flag", err)
		return flag.Flag{}, err
	}
	return f, nil
}

func (s *FlagService) All(ctx context.Context) ([]flag.Flag, error) {
	var flags []flag.Flag
	if err := s.client.get(ctx, "/flags", nil, &flags); err != nil {
		s.toast(MsgFlagListFailed, err)
		return nil, err
	}
	return flags, nil
}

// UserFlags returns the user flags of flag flagID. The zero id has none.
func (s *FlagService) UserFlags(ctx context.Context, flagID int) ([]flag.UserFlag, error) {
	if flagID == 0 {
		return nil, nil
	}
	var ufs []flag.UserFlag
	if err := s.client.get(ctx, fmt.Sprintf("/userFlags/flag/%d", flagID), nil, &ufs); err != nil {
		s.toast(MsgUserFlagListFailed, err)
		return nil, err
	}
	return ufs, nil
}

// Delete removes the user flags of flag id, then the flag itself, even when the first
// step failed. The flag's deletion error wins over the user flags' one.
func (s *FlagService) Delete(ctx context.Context, id int) error {
	ufErr := s.client.delete(ctx, fmt.Sprintf("/userFlags/flag/%d", id), nil)
	if ufErr != nil {
		s.toast(MsgUserFlagDeleteFailed, ufErr)
	}
	if err := s.client.delete(ctx, fmt.Sprintf("/flags/%d", id), nil); err != nil {
		s.toast(MsgFlagDeleteFailed, err)
		return err
	}
	return ufErr
}

// SetValidated records the stance of user flag id. The zero id is ignored.
func (s *FlagService) SetValidated(ctx context.Context, id int, validated bool) (*flag.UserFlag, error) {
	if id == 0 {
		return nil, nil
	}
	var uf *flag.UserFlag
	if err := s.client.put(ctx, fmt.Sprintf("/userFlags/%d/validated", id), validated, &uf); err != nil {
		s.toast(MsgValidateFailed, err)
		return nil, err
	}
	return uf, nil
}

// AllValidated reports whether every member involved in flag flagID validated it.
func (s *FlagService) AllValidated(ctx context.Context, flagID int) (bool, error) {
	var validated bool
	if err := s.client.get(ctx, fmt.Sprintf("/userFlags/validated/%d", flagID), nil, &validated); err != nil {
		s.toast(MsgAllValidatedFailed, err)
		return false, err
	}
	return validated, nil
}
