package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kotoba/internal/logger"
)

// LessonsController serves the read-only lesson endpoints.
type LessonsController struct {
	lessons LessonReader
	vocab   VocabReader
	kanji   KanjiReader
	log     *logger.Logger
}

func NewLessonsController(lessons LessonReader, vocab VocabReader, kanji KanjiReader, log *logger.Logger) *LessonsController {
	return &LessonsController{lessons: lessons, vocab: vocab, kanji: kanji, log: log}
}

// List handles GET /api/lessons
func (lc *LessonsController) List(c *gin.Context) {
	lessons, err := lc.lessons.GetLessons(c.Request.Context())
	if err != nil {
		respondError(c, lc.log, err, "lessons")
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// Get handles GET /api/lessons/:slug
func (lc *LessonsController) Get(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	lookup, err := lc.lessons.GetLessonBySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, lc.log, err, "lesson")
		return
	}
	lesson, found := lookup.Get()
	if !found {
		respondNotFound(c, "lesson")
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// Vocab handles GET /api/lessons/:slug/vocab
// An unknown lesson yields an empty list.
func (lc *LessonsController) Vocab(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	views, err := lc.vocab.GetVocabByLessonSlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, lc.log, err, "vocabulary")
		return
	}
	c.JSON(http.StatusOK, views)
}

// Kanji handles GET /api/lessons/:slug/kanji
func (lc *LessonsController) Kanji(c *gin.Context) {
	slug, ok := slugParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	lookup, err := lc.lessons.GetLessonBySlug(ctx, slug)
	if err != nil {
		respondError(c, lc.log, err, "lesson")
		return
	}
	lesson, found := lookup.Get()
	if !found {
		respondNotFound(c, "lesson")
		return
	}
	entries, err := lc.kanji.ListKanjiForLesson(ctx, lesson.ID)
	if err != nil {
		respondError(c, lc.log, err, "kanji")
		return
	}
	c.JSON(http.StatusOK, entries)
}
