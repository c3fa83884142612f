// Package database owns the persistence handle shared by all repositories.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, transactions
//	├── errors.go        # gorm/driver error translation
//	├── retry.go         # Bounded retry of transient failures
//	├── lessons/         # Lesson CRUD and cascade delete
//	├── vocabulary/      # Vocabulary entries and ordering
//	├── kanji/           # Kanji entries
//	└── reviews/         # Per-user review state
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(database.OptionsFromConfig(cfg, log))
//	defer db.Close()
//
//	lessonsRepo := lessons.NewRepository(db)
//	vocabRepo := vocabulary.NewRepository(db)
//
//	lesson, err := lessonsRepo.GetLessonBySlug(ctx, "lesson2")
//	views, err := vocabRepo.GetVocabByLessonSlug(ctx, "lesson2")
//
// # Errors
//
// Every repository returns errors from entities (ErrNotFound,
// ErrConstraintViolation, ErrStorageUnavailable, ErrInvalidInput) wrapping
// the underlying driver error. Reads that tolerate absence return
// entities.Lookup instead of ErrNotFound.
//
// # Transactions
//
// Database.Transaction hands a transaction-bound *Database to the callback.
// Repositories built from it with NewRepository join the transaction:
//
//	err := db.Transaction(ctx, func(tx *database.Database) error {
//		if _, err := vocabulary.NewRepository(tx).DeleteAllVocabForLesson(ctx, id); err != nil {
//			return err
//		}
//		_, err := vocabulary.NewRepository(tx).AddVocabToLesson(ctx, id, inputs)
//		return err
//	})
package database
