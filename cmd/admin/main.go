package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// userInput carries the flags of "user create".
type userInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      string
	Password  string
	Company   string
	Offices   []uint
}

var (
	userFlags      userInput
	categoryOffice uint
)

func openStorage() (*gorm.DB, *storage.Service, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, nil, err
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, storage.NewStorageService(db, nil), nil // No redis needed for admin CLI
}

func withStorage(run func(ctx context.Context, s *storage.Service, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, s, err := openStorage()
		if err != nil {
			return err
		}
		return run(cmd.Context(), s, args)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administration tool for the civic report backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStorage()
			if err != nil {
				return err
			}
			if err := storage.Migrate(db); err != nil {
				return err
			}
			fmt.Println("Schema is up to date.")
			return nil
		},
	}

	officeCmd := &cobra.Command{Use: "office", Short: "Manage offices"}
	officeCmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create an office",
		Args:  cobra.ExactArgs(1),
		RunE: withStorage(func(ctx context.Context, s *storage.Service, args []string) error {
			office, err := createOffice(ctx, s, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Office %d %q created.\n", office.ID, office.Name)
			return nil
		}),
	})

	categoryCmd := &cobra.Command{Use: "category", Short: "Manage report categories"}
	categoryCreate := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category handled by an office",
		Args:  cobra.ExactArgs(1),
		RunE: withStorage(func(ctx context.Context, s *storage.Service, args []string) error {
			category, err := createCategory(ctx, s, args[0], categoryOffice)
			if err != nil {
				return err
			}
			fmt.Printf("Category %d %q created for office %d.\n", category.ID, category.Name, category.OfficeID)
			return nil
		}),
	}
	categoryCreate.Flags().UintVar(&categoryOffice, "office", 0, "owning office id")
	_ = categoryCreate.MarkFlagRequired("office")
	categoryCmd.AddCommand(categoryCreate)

	userCmd := &cobra.Command{Use: "user", Short: "Manage user accounts"}
	userCreate := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: withStorage(func(ctx context.Context, s *storage.Service, _ []string) error {
			user, err := createUser(ctx, s, userFlags)
			if err != nil {
				return err
			}
			fmt.Printf("User %d %q (%s) created.\n", user.ID, user.Username, user.Role)
			return nil
		}),
	}
	f := userCreate.Flags()
	f.StringVar(&userFlags.Username, "username", "", "login name")
	f.StringVar(&userFlags.Email, "email", "", "e-mail address")
	f.StringVar(&userFlags.FirstName, "first-name", "", "first name")
	f.StringVar(&userFlags.LastName, "last-name", "", "last name")
	f.StringVar(&userFlags.Role, "role", string(models.RoleCitizen), "account role")
	f.StringVar(&userFlags.Password, "password", "", "initial password")
	f.StringVar(&userFlags.Company, "company", "", "employer, for external maintainers")
	f.UintSliceVar(&userFlags.Offices, "office", nil, "office id (repeatable)")
	for _, name := range []string{"username", "email", "password"} {
		_ = userCreate.MarkFlagRequired(name)
	}

	userCmd.AddCommand(userCreate,
		&cobra.Command{
			Use:   "deactivate <user_id>",
			Short: "Disable a user account",
			Args:  cobra.ExactArgs(1),
			RunE: withStorage(func(ctx context.Context, s *storage.Service, args []string) error {
				return setActive(ctx, s, args[0], false)
			}),
		},
		&cobra.Command{
			Use:   "activate <user_id>",
			Short: "Re-enable a user account",
			Args:  cobra.ExactArgs(1),
			RunE: withStorage(func(ctx context.Context, s *storage.Service, args []string) error {
				return setActive(ctx, s, args[0], true)
			}),
		},
		&cobra.Command{
			Use:   "add-office <user_id> <office_id>",
			Short: "Link a user to an office",
			Args:  cobra.ExactArgs(2),
			RunE: withStorage(func(ctx context.Context, s *storage.Service, args []string) error {
				userID, err := parseID(args[0])
				if err != nil {
					return err
				}
				officeID, err := parseID(args[1])
				if err != nil {
					return err
				}
				if err := s.AddUserToOffice(ctx, userID, officeID); err != nil {
					return err
				}
				fmt.Printf("User %d added to office %d.\n", userID, officeID)
				return nil
			}),
		},
	)

	root.AddCommand(migrateCmd, officeCmd, categoryCmd, userCmd)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

func createOffice(ctx context.Context, s storage.Storage, name string) (*models.Office, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("office name is required")
	}
	office := &models.Office{Name: name}
	if err := s.CreateOffice(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

func createCategory(ctx context.Context, s storage.Storage, name string, officeID uint) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	category := &models.Category{Name: name, OfficeID: officeID}
	if err := s.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func createUser(ctx context.Context, s storage.Storage, in userInput) (*models.User, error) {
	role := models.Role(strings.ToUpper(strings.TrimSpace(in.Role)))
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", in.Role)
	}
	if len(in.Offices) > 0 && !role.HasOffices() {
		return nil, fmt.Errorf("role %s does not belong to offices", role)
	}
	if role == models.RoleTechnicalStaff && len(in.Offices) == 0 {
		log.Println("WARNING: technical staff without an office is never assigned reports")
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		Role:         role,
		Company:      in.Company,
		Active:       true,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	for _, officeID := range in.Offices {
		if err := s.AddUserToOffice(ctx, user.ID, officeID); err != nil {
			return nil, fmt.Errorf("user %d created but not linked to office %d: %w", user.ID, officeID, err)
		}
	}
	return user, nil
}

func setActive(ctx context.Context, s storage.Storage, rawID string, active bool) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.SetUserActive(ctx, id, active); err != nil {
		return err
	}
	fmt.Printf("User %d active=%t.\n", id, active)
	return nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
