package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/trotne/ideapad-slidebar/internal/config"
	"github.com/trotne/ideapad-slidebar/internal/features"
)

// ルートの設定
func (s *Server) setupRoutes(router *http.ServeMux) {
	// 設定関連のエンドポイント
	router.HandleFunc("GET /api/config", s.handleGetConfig)
	router.HandleFunc("PUT /api/config", s.handleUpdateConfig)
	router.HandleFunc("POST /api/config/save", s.handleSaveConfig)

	// スライドバー関連のエンドポイント
	router.HandleFunc("GET /api/slidebar/mode", s.handleGetMode)
	router.HandleFunc("PUT /api/slidebar/mode", s.handleSetMode)
	router.HandleFunc("GET /api/slidebar/position", s.handleGetPosition)

	// サービス関連のエンドポイント
	router.HandleFunc("POST /api/service/start", s.handleStartService)
	router.HandleFunc("POST /api/service/stop", s.handleStopService)
	router.HandleFunc("GET /api/service/status", s.handleServiceStatus)

	// ヘルスチェック用エンドポイント
	router.HandleFunc("GET /api/health", s.handleHealthCheck)
}

// 設定取得ハンドラ
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GetConfig())
}

// 設定更新ハンドラ
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config

	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		writeError(w, http.StatusBadRequest, "設定の解析に失敗しました")
		return
	}

	s.UpdateConfig(&newConfig)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// 設定保存ハンドラ
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var saveRequest struct {
		Path string `json:"path"`
	}

	if err := json.NewDecoder(r.Body).Decode(&saveRequest); err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの解析に失敗しました")
		return
	}

	configPath := saveRequest.Path
	if configPath == "" {
		// デフォルトパスを使用
		userConfigDir, err := config.GetDefaultConfigDir()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "デフォルト設定ディレクトリの取得に失敗しました")
			return
		}
		configPath = filepath.Join(userConfigDir, "config.toml")
	}

	if err := config.SaveConfig(configPath, s.GetConfig()); err != nil {
		writeError(w, http.StatusInternalServerError, "設定の保存に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"path":   configPath,
	})
}

// モード取得ハンドラ
// sysfsの slidebar_mode と同じ形式（16進+改行）のテキストを返す
func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	mode := s.service.Mode()
	if mode == nil {
		writeError(w, http.StatusServiceUnavailable, "サービスが実行されていません")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, mode.Show())
}

// モード設定ハンドラ
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	mode := s.service.Mode()
	if mode == nil {
		writeError(w, http.StatusServiceUnavailable, "サービスが実行されていません")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "リクエストの読み込みに失敗しました")
		return
	}

	n, err := mode.Store(body)
	if err != nil {
		if errors.Is(err, features.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"consumed": n})
}

// 位置取得ハンドラ
func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	pos, ok := s.service.Position()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "サービスが実行されていません")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"position": int(pos)})
}

// サービス開始ハンドラ
func (s *Server) handleStartService(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Start(); err != nil {
		writeError(w, http.StatusInternalServerError, "サービスの開始に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// サービス停止ハンドラ
func (s *Server) handleStopService(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Stop(); err != nil {
		writeError(w, http.StatusInternalServerError, "サービスの停止に失敗しました: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// サービス状態取得ハンドラ
func (s *Server) handleServiceStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"running": s.service.IsRunning(),
	}

	if s.service.IsRunning() {
		status["model"] = s.service.Model()
		if mode, ok := s.service.ModeByte(); ok {
			status["mode"] = fmt.Sprintf("%x", mode)
			status["state"] = features.ModeStateName(mode)
		}
		if pos, ok := s.service.Position(); ok {
			status["position"] = int(pos)
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// ヘルスチェックハンドラ
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
