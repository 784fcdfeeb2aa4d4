package main

import (
	"context"

	"rentalhub/config"
	"rentalhub/internal/domain/entity"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/auth"
	"rentalhub/internal/infra/persistence/postgres"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"gorm.io/gorm"
)

const defaultSeedPassword = "password123"

type seedUser struct {
	email string
	name  string
	role  entity.Role
}

type seedProperty struct {
	title        string
	description  string
	price        float64
	location     string
	point        orb.Point
	propertyType entity.PropertyType
	bedrooms     int
	bathrooms    int
	amenities    []string
	approved     bool
}

var seedUsers = []seedUser{
	{email: "admin@rentalhub.local", name: "Admin", role: entity.RoleAdmin},
	{email: "owner@rentalhub.local", name: "Olivia Owner", role: entity.RoleOwner},
	{email: "user@rentalhub.local", name: "Umar User", role: entity.RoleUser},
}

// Seeded listings belong to the owner account.
var seedProperties = []seedProperty{
	{
		title:        "Sunny two bedroom apartment",
		description:  "Bright corner apartment close to the metro with a large balcony.",
		price:        1450,
		location:     "Koregaon Park, Pune",
		point:        orb.Point{73.8936, 18.5362},
		propertyType: entity.PropertyTypeApartment,
		bedrooms:     2,
		bathrooms:    2,
		amenities:    []string{"wifi", "parking", "balcony"},
		approved:     true,
	},
	{
		title:        "Quiet studio near the university",
		description:  "Furnished studio with a kitchenette, ideal for students.",
		price:        600,
		location:     "Shivajinagar, Pune",
		point:        orb.Point{73.8478, 18.5308},
		propertyType: entity.PropertyTypeStudio,
		bedrooms:     1,
		bathrooms:    1,
		amenities:    []string{"wifi", "furnished"},
		approved:     true,
	},
	{
		title:        "Family house with garden",
		description:  "Three bedroom house with a private garden, awaiting review.",
		price:        2300,
		location:     "Baner, Pune",
		point:        orb.Point{73.7868, 18.5590},
		propertyType: entity.PropertyTypeHouse,
		bedrooms:     3,
		bathrooms:    2,
		amenities:    []string{"garden", "parking"},
	},
}

// seedResult counts the rows created by one run.
type seedResult struct {
	Users      int
	Properties int
}

type seeder struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	password  string
}

func newSeeder(db *gorm.DB, password string) *seeder {
	return &seeder{
		txManager: postgres.NewTransactionManager(db),
		hasher:    auth.NewBcryptHasher(&config.Config{}),
		password:  password,
	}
}

// Seed is idempotent: accounts are matched by email and listings by owner and title.
func (s *seeder) Seed(ctx context.Context) (*seedResult, error) {
	result := &seedResult{}

	err := s.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		users := make(map[entity.Role]*entity.User, len(seedUsers))
		for _, su := range seedUsers {
			user, created, err := s.ensureUser(ctx, repoFactory.NewUserRepository(), su)
			if err != nil {
				return err
			}
			if created {
				result.Users++
			}
			users[su.role] = user
		}

		owner := users[entity.RoleOwner]
		propertyRepo := repoFactory.NewPropertyRepository()
		existing, _, err := propertyRepo.List(ctx, repository.PropertyFilter{OwnerID: &owner.ID}, repository.PropertySort{},
			entity.PageRequest{Page: 1, Limit: len(seedProperties) * 10})
		if err != nil {
			return errors.Wrap(err, "failed to list seeded properties")
		}
		titles := make(map[string]bool, len(existing))
		for _, p := range existing {
			titles[p.Title] = true
		}

		for _, sp := range seedProperties {
			if titles[sp.title] {
				continue
			}
			if err := createProperty(ctx, propertyRepo, owner.ID, sp); err != nil {
				return err
			}
			result.Properties++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *seeder) ensureUser(ctx context.Context, userRepo repository.UserRepository, su seedUser) (*entity.User, bool, error) {
	user, err := userRepo.FindByEmail(ctx, su.email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, errors.Wrapf(err, "failed to look up %s", su.email)
	}

	hash, err := s.hasher.Hash(s.password)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to hash seed password")
	}
	user = entity.NewUser(su.email, su.name, su.role)
	user.PasswordHash = hash
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, false, errors.Wrapf(err, "failed to create %s", su.email)
	}

	return user, true, nil
}

func createProperty(ctx context.Context, propertyRepo repository.PropertyRepository, ownerID uuid.UUID, sp seedProperty) error {
	property := entity.NewProperty(ownerID)
	property.Title = sp.title
	property.Description = sp.description
	property.Price = sp.price
	property.Location = sp.location
	property.PropertyType = sp.propertyType
	property.Bedrooms = sp.bedrooms
	property.Bathrooms = sp.bathrooms
	property.Amenities = sp.amenities
	point := sp.point
	property.SetCoordinates(&point)
	if sp.approved {
		if err := property.Approve(); err != nil {
			return err
		}
	}
	if err := property.Validate(); err != nil {
		return err
	}

	if err := propertyRepo.Create(ctx, property); err != nil {
		return errors.Wrapf(err, "failed to create property %q", sp.title)
	}

	return nil
}
