package services

import (
	"context"
	"fmt"

	"github.com/ecommerce-cloud/backend/internal/models"
	"github.com/ecommerce-cloud/backend/internal/repository"
)

type UserService struct {
	users     repository.UserRepository
	addresses repository.AddressRepository
	cards     repository.CardRepository
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{
		users:     store.Users,
		addresses: store.Addresses,
		cards:     store.Cards,
	}
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.UserView, error) {
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &models.UserView{User: *user, Addresses: []models.Address{}, Cards: []models.CardView{}}, nil
}

// View loads a user with its addresses and masked cards.
func (s *UserService) View(ctx context.Context, id int64) (*models.UserView, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user)
}

func (s *UserService) view(ctx context.Context, user *models.User) (*models.UserView, error) {
	addresses, err := s.addresses.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("addresses for user %d: %w", user.ID, err)
	}
	cards, err := s.cards.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("cards for user %d: %w", user.ID, err)
	}

	views := make([]models.CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, c.View())
	}
	return &models.UserView{User: *user, Addresses: addresses, Cards: views}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserView, 0, len(users))
	for i := range users {
		v, err := s.view(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

// Update replaces the user's profile fields in place.
func (s *UserService) Update(ctx context.Context, user *models.User) (*models.UserView, error) {
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.view(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// AddAddress attaches an address to the user. A user's first address is
// always primary.
func (s *UserService) AddAddress(ctx context.Context, userID int64, addr *models.Address) (*models.UserView, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	addr.UserID = userID
	if len(existing) == 0 {
		addr.Primary = true
	}
	if err := s.addresses.Create(ctx, addr); err != nil {
		return nil, err
	}
	return s.view(ctx, user)
}
