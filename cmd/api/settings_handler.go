package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ollamaRuntime holds the Ollama endpoint settings that can change without a
// restart. The AI provider reads them through the package getters on every
// call, so an update takes effect on the next generation.
type ollamaRuntime struct {
	mu      sync.RWMutex
	baseURL string
	model   string
}

var ollamaSettings ollamaRuntime

// InitRuntimeConfig seeds the runtime Ollama settings from the static config.
func InitRuntimeConfig(baseURL, model string) {
	ollamaSettings.mu.Lock()
	defer ollamaSettings.mu.Unlock()
	ollamaSettings.baseURL = baseURL
	ollamaSettings.model = model
}

func GetRuntimeOllamaBaseURL() string {
	ollamaSettings.mu.RLock()
	defer ollamaSettings.mu.RUnlock()
	return ollamaSettings.baseURL
}

func GetRuntimeOllamaModel() string {
	ollamaSettings.mu.RLock()
	defer ollamaSettings.mu.RUnlock()
	return ollamaSettings.model
}

// GetOllamaSettings handles GET /api/settings/ollama.
func GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": GetRuntimeOllamaBaseURL(),
		"ollama_model":    GetRuntimeOllamaModel(),
	})
}

// UpdateOllamaSettings handles PUT /api/settings/ollama. An empty model keeps
// the current one.
func UpdateOllamaSettings(c *gin.Context) {
	var req struct {
		BaseURL string `json:"ollama_base_url" binding:"required"`
		Model   string `json:"ollama_model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	ollamaSettings.mu.Lock()
	ollamaSettings.baseURL = req.BaseURL
	if req.Model != "" {
		ollamaSettings.model = req.Model
	}
	ollamaSettings.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": GetRuntimeOllamaBaseURL(),
		"ollama_model":    GetRuntimeOllamaModel(),
	})
}

// TestOllamaConnection handles POST /api/settings/ollama/test by probing the
// server's tag listing. Without a body it probes the configured endpoint.
func TestOllamaConnection(c *gin.Context) {
	var req struct {
		BaseURL string `json:"ollama_base_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BaseURL == "" {
		req.BaseURL = GetRuntimeOllamaBaseURL()
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(req.BaseURL + "/api/tags")
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"connected": false, "error": err.Error()})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{"connected": false, "status_code": resp.StatusCode})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true, "ollama_base_url": req.BaseURL})
}
