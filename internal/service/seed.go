package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
)

// Seeder creates the default privileges, roles and first owner account
type Seeder struct {
	Privileges repository.PrivilegeRepository
	Roles      repository.RoleRepository
	Users      repository.UserRepository
}

func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) error {
	if err := s.Privileges.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := s.Roles.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	all, err := s.Privileges.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load privileges: %w", err)
	}
	staff, err := s.Privileges.FindByCodes(ctx, model.StaffPrivileges)
	if err != nil {
		return fmt.Errorf("load staff privileges: %w", err)
	}

	owner, err := s.assign(ctx, model.RoleOwner, all)
	if err != nil {
		return err
	}
	if _, err := s.assign(ctx, model.RoleStaff, staff); err != nil {
		return err
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}
	_, err = s.Users.FindByEmail(ctx, adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}

	admin := &model.User{
		Email:      adminEmail,
		FullName:   "Propietario",
		RoleID:     &owner.ID,
		IsActive:   true,
		Privileges: owner.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(adminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("Owner account created: %s", adminEmail)
	return nil
}

// assign gives a freshly seeded role its default privileges
func (s *Seeder) assign(ctx context.Context, code string, privileges []model.Privilege) (*model.Role, error) {
	role, err := s.Roles.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find role %s: %w", code, err)
	}
	if len(role.Privileges) == 0 {
		if err := s.Roles.AssignPrivileges(ctx, role, privileges); err != nil {
			return nil, fmt.Errorf("assign privileges to %s: %w", code, err)
		}
		role.Privileges = privileges
		log.Printf("Role %s assigned %d privileges", code, len(privileges))
	}
	return role, nil
}
