package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/kraakman/autoservice-backend/config"
	"github.com/kraakman/autoservice-backend/internal/app/model"
	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports the inventory from an XLSX export. Expected columns:
// merk | model | type | bouwjaar | kilometerstand | prijs | transmissie |
// brandstof | kleur | status | omschrijving | opties
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.Connect(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database, cfg); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	carRepo := repository.NewCarRepository(database)

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	cars, err := readCarsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total cars to import: %d\n", len(cars))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range cars {
		if err := carRepo.Create(&cars[i]); err != nil {
			log.Printf("Failed to import %s %s: %v", cars[i].Merk, cars[i].Model, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total cars imported: %d\n", imported)
}

func readCarsFromXLSX(filePath string) ([]model.Car, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows")
	}

	var cars []model.Car
	for i, row := range rows[1:] {
		car, err := carFromRow(row)
		if err != nil {
			log.Printf("Skipping row %d: %v", i+2, err)
			continue
		}
		cars = append(cars, *car)
	}
	return cars, nil
}

func carFromRow(row []string) (*model.Car, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	merk := get(0)
	carModel := get(1)
	if merk == "" || carModel == "" {
		return nil, fmt.Errorf("merk and model are required")
	}

	bouwjaar, err := strconv.Atoi(get(3))
	if err != nil {
		return nil, fmt.Errorf("invalid bouwjaar %q", get(3))
	}
	prijs, err := strconv.Atoi(get(5))
	if err != nil {
		return nil, fmt.Errorf("invalid prijs %q", get(5))
	}

	car := &model.Car{
		Merk:         merk,
		Model:        carModel,
		Type:         optionalString(get(2)),
		Bouwjaar:     bouwjaar,
		Prijs:        prijs,
		Transmissie:  optionalString(get(6)),
		Kleur:        optionalString(get(8)),
		Omschrijving: get(10),
		Status:       model.StatusAanbod,
	}
	car.BrandstofType = optionalString(get(7))

	if km, err := strconv.Atoi(get(4)); err == nil {
		car.Kilometerstand = &km
	}
	if status := get(9); status == string(model.StatusVerkocht) {
		car.Status = model.StatusVerkocht
	}
	if opties := get(11); opties != "" {
		for _, optie := range strings.Split(opties, ",") {
			if o := strings.TrimSpace(optie); o != "" {
				car.Opties = append(car.Opties, o)
			}
		}
	}

	return car, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
