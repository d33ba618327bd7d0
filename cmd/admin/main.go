// Admin CLI for reference-data management: seeding departments,
// binding staff users to departments and promoting superusers.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"urbaniq/backend/internal/config"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	s := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "seed-departments":
		if err := s.SeedDepartments(models.SeedDepartments); err != nil {
			log.Fatalf("Error seeding departments: %v", err)
		}
		fmt.Println("Departments seeded.")

	case "assign-authority":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin assign-authority <email> <department>")
			os.Exit(1)
		}
		if err := assignAuthority(s, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error assigning authority: %v", err)
		}
		fmt.Printf("%s is now an authority for %s.\n", os.Args[2], os.Args[3])

	case "promote-admin":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin promote-admin <email>")
			os.Exit(1)
		}
		if err := promoteAdmin(s, os.Args[2]); err != nil {
			log.Fatalf("Error promoting admin: %v", err)
		}
		fmt.Printf("%s is now a superuser.\n", os.Args[2])

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <seed-departments|assign-authority|promote-admin> [args]")
	os.Exit(1)
}

func assignAuthority(s storage.Storage, email, department string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	dept, err := s.GetDepartmentByName(department)
	if err != nil {
		return err
	}

	user.IsStaff = true
	if err := s.UpdateUser(user); err != nil {
		return err
	}
	return s.CreateAuthorityProfile(&models.AuthorityProfile{
		UserID:       user.ID,
		DepartmentID: dept.ID,
	})
}

func promoteAdmin(s storage.Storage, email string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	return s.UpdateUser(user)
}
