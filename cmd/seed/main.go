// Command seed creates backend products from a product workbook through the
// admin API. ADMIN_USERNAME and ADMIN_PASSWORD must be set.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/pkg/backend"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	username, password := os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer file.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := service.ReadProductsXLSX(file)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	for _, row := range skipped {
		fmt.Printf("Skipping row %d: %s\n", row.Row, row.Reason)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create backend client:", err)
	}

	ctx := context.Background()
	login, err := client.AdminLogin(ctx, backend.AdminCredentials{Username: username, Password: password})
	if err != nil {
		log.Fatal("Admin login failed:", err)
	}

	admin := service.NewAdminService(client)
	created, failed := 0, 0
	for _, in := range products {
		if _, err := admin.CreateProduct(ctx, login.Token, in); err != nil {
			fmt.Printf("Failed to create %q: %v\n", in.Name, err)
			failed++
			continue
		}
		created++
	}

	fmt.Println("Import completed!")
	fmt.Printf("Created: %d, failed: %d, skipped rows: %d\n", created, failed, len(skipped))
}
