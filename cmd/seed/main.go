package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"libris/internal/database"
	"libris/internal/domain"
)

func main() {
	db, err := database.Connect("library.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM fines")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM checkouts")
	db.Exec("DELETE FROM uploads")
	db.Exec("DELETE FROM books")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	employeeHash, _ := bcrypt.GenerateFromPassword([]byte("employee123"), bcrypt.DefaultCost)
	employee := domain.User{
		Email:          "librarian@libris.dev",
		PasswordHash:   string(employeeHash),
		Role:           domain.RoleEmployee,
		FirstName:      "Dana",
		LastName:       "Whitfield",
		MembershipDate: time.Now().UTC(),
		IsActive:       true,
	}
	if err := db.Create(&employee).Error; err != nil {
		log.Fatal("create employee:", err)
	}

	customers := []domain.User{
		{Email: "alice@example.com", FirstName: "Alice", LastName: "Moreno"},
		{Email: "bob@example.com", FirstName: "Bob", LastName: "Keller"},
		{Email: "carol@example.com", FirstName: "Carol", LastName: "Nguyen"},
	}
	customerHash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	for i := range customers {
		customers[i].PasswordHash = string(customerHash)
		customers[i].Role = domain.RoleCustomer
		customers[i].MembershipDate = time.Now().UTC()
		customers[i].IsActive = true
		if err := db.Create(&customers[i]).Error; err != nil {
			log.Fatal("create customer:", err)
		}
	}

	// ================== BOOKS ==================
	log.Println("Creating books...")

	books := []domain.Book{
		{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", ISBN: "9780441478125", Genre: "Science Fiction", PublishedYear: 1969, TotalCopies: 3},
		{Title: "Kindred", Author: "Octavia E. Butler", ISBN: "9780807083697", Genre: "Science Fiction", PublishedYear: 1979, TotalCopies: 2},
		{Title: "The Name of the Rose", Author: "Umberto Eco", ISBN: "9780156001311", Genre: "Mystery", PublishedYear: 1980, TotalCopies: 2},
		{Title: "Beloved", Author: "Toni Morrison", ISBN: "9781400033416", Genre: "Literary Fiction", PublishedYear: 1987, TotalCopies: 4},
		{Title: "The Remains of the Day", Author: "Kazuo Ishiguro", ISBN: "9780679731726", Genre: "Literary Fiction", PublishedYear: 1989, TotalCopies: 1},
		{Title: "A Brief History of Time", Author: "Stephen Hawking", ISBN: "9780553380163", Genre: "Science", PublishedYear: 1988, TotalCopies: 2},
		{Title: "The Shadow of the Wind", Author: "Carlos Ruiz Zafon", ISBN: "9780143034902", Genre: "Mystery", PublishedYear: 2001, TotalCopies: 3},
	}
	for i := range books {
		books[i].AvailableCopies = books[i].TotalCopies
		books[i].AddedBy = employee.ID
		if err := db.Create(&books[i]).Error; err != nil {
			log.Fatal("create book:", err)
		}
	}

	log.Printf("Seed complete: %d users, %d books", 1+len(customers), len(books))
	log.Println("Employee login: librarian@libris.dev / employee123")
	log.Println("Customer login: alice@example.com / customer123")
}
