// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - LessonReader: lessons by number and slug (internal/http/stores.go, internal/progress)
//   - VocabReader: vocabulary views and entries (internal/http/stores.go, internal/progress)
//   - KanjiReader: kanji of a lesson (internal/http/stores.go)
//   - ReviewReader: per-user review state (internal/progress)
//
// ## Domain Interfaces
//
//   - srs.Scheduler: spaced-repetition policy (internal/srs/srs.go)
//   - reading.Suggester: kana reading suggestion (internal/reading/reading.go)
//
// ## Background Work Interfaces
//
//   - tasks.Renumberer / scheduler.Renumberer: vocabulary renumbering (internal/admin)
//   - scheduler.Enqueuer, http.TaskQueue: the backlite task client (internal/tasks)
//
// # Adding a New Scheduling Algorithm
//
//  1. Implement srs.Scheduler in internal/srs/
//
//     type Leitner struct{ boxes []int }
//
//     func (l *Leitner) Name() string
//     func (l *Leitner) Apply(state *entities.ReviewState, grade Grade, now time.Time)
//     func (l *Leitner) NextDue(entry entities.VocabEntry, state *entities.ReviewState) (time.Time, bool)
//
//  2. Register its name in srs.New so SRS_ALGORITHM can select it.
//
// # Adding a New Lesson File Format
//
//  1. Add a Format constant and extension in internal/payload/payload.go.
//  2. Decode into payload.Lesson and call Validate.
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct {
//     db  *database.Database
//     log *logger.Logger
//     }
//
//     func NewRepository(db *database.Database) *Repository
//
//  3. Run queries through db.Run or db.Transaction so errors are translated
//     and transient failures retried.
//
//  4. Add compile-time check:
//
//     var _ SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
