package api

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/compare-sitemaps/app/tasks"
)

var sitemapName = regexp.MustCompile(`^[a-z0-9-]+-sitemap-[a-z]{2}-\d+\.xml$`)

func NewHandler(outputDir, indexFile string, categories []string, runner RunnerInterface, history RunHistoryInterface) *Handler {
	return &Handler{
		outputDir:  outputDir,
		indexFile:  indexFile,
		categories: categories,
		runner:     runner,
		history:    history,
	}
}

func (h *Handler) GetSitemap(c *gin.Context) {
	name := c.Param("file")
	if !sitemapName.MatchString(name) {
		c.Status(http.StatusNotFound)
		return
	}

	h.serveXML(c, filepath.Join(h.outputDir, name))
}

func (h *Handler) GetSitemapIndex(c *gin.Context) {
	h.serveXML(c, h.indexFile)
}

func (h *Handler) serveXML(c *gin.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Error("Failed to stat sitemap", "path", path, "error", err)
		}
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Last-Updated", info.ModTime().Format(time.RFC3339))
	c.File(path)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"categories": len(h.categories),
	}

	if _, err := os.Stat(h.indexFile); err == nil {
		health["index"] = true
	} else {
		health["index"] = false
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{
			"run_history": false,
		})
		return
	}

	run, err := h.history.LatestRun(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "latest_run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if run == nil {
		c.JSON(http.StatusOK, gin.H{
			"run_history": true,
			"last_run":    nil,
		})
		return
	}

	lastRun := gin.H{
		"id":         run.ID,
		"status":     run.Status,
		"started_at": run.StartedAt.In(time.Local).Format(time.RFC3339),
		"files":      run.Files,
		"urls":       run.URLs,
	}
	if run.FinishedAt != nil {
		lastRun["finished_at"] = run.FinishedAt.In(time.Local).Format(time.RFC3339)
		lastRun["duration"] = run.FinishedAt.Sub(run.StartedAt).String()
	}
	if run.Error != "" {
		lastRun["error"] = run.Error
	}

	c.JSON(http.StatusOK, gin.H{
		"run_history": true,
		"last_run":    lastRun,
	})
}

func (h *Handler) APIGenerate(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if errors.Is(err, tasks.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "Generation already in progress"})
		return
	}
	if err != nil {
		slog.Error("Sitemap generation failed", "trigger", "api", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Sitemap generation failed",
			"details": err.Error(),
		})
		return
	}

	categories := make([]gin.H, 0, len(result.Categories))
	for _, category := range result.Categories {
		categories = append(categories, gin.H{
			"name":     category.Category,
			"records":  category.Records,
			"skipped":  category.Skipped,
			"filtered": category.Filtered,
			"names":    category.Names,
			"pairs":    category.Pairs,
			"files":    len(category.Files),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"files":      result.FileCount(),
		"urls":       result.URLCount(),
		"duration":   result.FinishedAt.Sub(result.StartedAt).String(),
		"categories": categories,
	})
}
