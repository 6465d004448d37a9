package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"libraryhub/internal/config"
	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/service"
)

var sampleTitles = []string{
	"Thinking in Java", "Spring in Action", "Python for Data Analysis",
	"Introduction to Algorithms", "Deep Learning", "Machine Learning in Action",
	"Data Structures and Algorithms", "Design Patterns", "Clean Code", "Refactoring",
	"Microservices Patterns", "Distributed Systems", "Database System Concepts",
	"Computer Networking", "Operating System Concepts", "Compilers",
	"Software Engineering", "Artificial Intelligence", "Big Data", "Cloud Computing",
	"Frontend Web Development", "Vue.js in Action", "React in Action",
	"Pro Angular", "Node.js in Action", "Docker in Practice",
	"Kubernetes Up and Running", "The DevOps Handbook", "Continuous Delivery",
	"Agile Software Development",
}

var sampleAuthors = []string{
	"Bruce Eckel", "Craig Walls", "Wes McKinney", "Thomas Cormen", "Ian Goodfellow",
	"Peter Harrington", "Robert Sedgewick", "Erich Gamma", "Robert Martin", "Martin Fowler",
	"Chris Richardson", "Leslie Lamport", "Abraham Silberschatz", "Andrew Tanenbaum",
	"Alfred Aho", "Ian Sommerville", "Stuart Russell", "Viktor Mayer-Schonberger",
	"Thomas Erl", "Eric Freeman", "Evan You", "Mark Tielens", "Adam Freeman",
	"James Turnbull", "Kelsey Hightower", "Gene Kim", "Paul Duvall",
}

var samplePublishers = []string{
	"O'Reilly Media", "Addison-Wesley", "Manning Publications", "Packt Publishing",
	"Apress", "Wiley", "McGraw-Hill", "Pearson", "Cambridge University Press",
	"MIT Press", "No Starch Press", "Prentice Hall",
}

// Run ensures the default accounts exist and, on an empty catalog, fills it
// with synthetic demo books.
func Run(ctx context.Context, users service.UserService, books service.BookService, cfg *config.Config, logger *slog.Logger) error {
	if err := users.EnsureDefaultAccounts(ctx); err != nil {
		return fmt.Errorf("ensure default accounts: %w", err)
	}

	count, err := books.Count(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 || cfg.SeedBookCount == 0 {
		return nil
	}

	logger.Info("Seeding sample books", "count", cfg.SeedBookCount)
	return seedBooks(ctx, books, cfg.SeedBookCount, logger)
}

func seedBooks(ctx context.Context, books service.BookService, n int, logger *slog.Logger) error {
	created := 0
	for i := 1; i <= n; i++ {
		title := fmt.Sprintf("%s, %d Edition", sampleTitles[rand.Intn(len(sampleTitles))], (i%10)+1)
		book := &models.Book{
			ISBN:          fmt.Sprintf("978-%04d-%04d-%d", rand.Intn(10000), rand.Intn(10000), rand.Intn(10)),
			Title:         title,
			Author:        sampleAuthors[rand.Intn(len(sampleAuthors))],
			Publisher:     samplePublishers[rand.Intn(len(samplePublishers))],
			PublishYear:   2015 + rand.Intn(9),
			Price:         29.99 + rand.Float64()*170.01,
			StockQuantity: rand.Intn(100),
			Description:   fmt.Sprintf("An excellent book about %s, suitable for beginners and advanced readers alike.", title),
		}

		if err := books.Create(ctx, book); err != nil {
			// Random ISBNs occasionally collide; skip and move on.
			if errors.Is(err, service.ErrISBNExists) {
				continue
			}
			return fmt.Errorf("seed book %d: %w", i, err)
		}
		created++

		if created%100 == 0 {
			logger.Info("Seeding progress", "created", created)
		}
	}

	logger.Info("Sample books created", "created", created)
	return nil
}
