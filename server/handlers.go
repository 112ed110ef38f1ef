package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "screener/server/errors"
	"screener/server/middleware"
	"screener/swift"
)

// respondError отображает ошибку приложения в HTTP ответ. Неизвестные
// ошибки отдаются как 500 с общим сообщением, детали остаются в логах.
func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("unhandled error", err)
	}

	s.logger.Error("request failed",
		"kind", string(appErr.Kind),
		"status", appErr.StatusCode(),
		"error", appErr.Error(),
		"request_id", middleware.GetRequestID(c),
		"path", c.Request.URL.Path,
	)

	c.JSON(appErr.StatusCode(), gin.H{
		"error":   true,
		"kind":    string(appErr.Kind),
		"message": appErr.Message,
	})
}

// handleSDNHealth состояние кэша санкционного списка
func (s *Server) handleSDNHealth(c *gin.Context) {
	records := s.matcher.Records()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"cache_fresh": s.sdnCache.IsFresh(),
		"entry_count": len(records),
	})
}

// handleSDNList полный набор записей списка
func (s *Server) handleSDNList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": s.matcher.Records(),
	})
}

// handleSDNSearch поиск наименования по санкционному списку
func (s *Server) handleSDNSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		s.respondError(c, apperrors.NewValidationError("query parameter is required", nil))
		return
	}

	c.JSON(http.StatusOK, s.matcher.Search(query))
}

// handleSDNUpdate принудительное обновление списка из источника
func (s *Server) handleSDNUpdate(c *gin.Context) {
	if err := s.sdnCache.Refresh(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	s.matcher.Invalidate()
	records := s.matcher.Records()

	c.JSON(http.StatusOK, gin.H{
		"updated":     true,
		"entry_count": len(records),
	})
}

// handleCompany дерево владения для идентификатора компании
func (s *Server) handleCompany(c *gin.Context) {
	inn := c.Param("inn")

	node, err := s.resolver.Resolve(c.Request.Context(), inn)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if node == nil {
		s.respondError(c, apperrors.NewNotFoundError("company not found", nil))
		return
	}

	c.JSON(http.StatusOK, node)
}

// handleOrgInfoSearch поиск организации по наименованию во вторичном
// реестре: сначала находится карточка, затем отдается её содержимое
func (s *Server) handleOrgInfoSearch(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		s.respondError(c, apperrors.NewValidationError("name parameter is required", nil))
		return
	}

	orgURL, err := s.orgClient.SearchOrganization(c.Request.Context(), name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if orgURL == "" {
		s.respondError(c, apperrors.NewNotFoundError("no match found", nil))
		return
	}

	profile, err := s.orgClient.FetchOrganization(c.Request.Context(), orgURL)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

type processRequest struct {
	Message string `json:"message" binding:"required"`
}

// handleSwiftProcess разбирает сообщение MT103, проверяет отправителя и
// получателя по санкционному списку, строит дерево владения отправителя
// и сохраняет результат.
func (s *Server) handleSwiftProcess(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("message field is required", err))
		return
	}

	msg := swift.Extract(req.Message)
	if msg.TransactionReference == "" {
		s.respondError(c, apperrors.NewValidationError("message has no transaction reference", nil))
		return
	}

	companyInfo := gin.H{}
	if msg.SenderName != "" {
		companyInfo["sdn_check"] = s.matcher.Search(msg.SenderName)
	}
	if msg.SenderINN != "" {
		// Сбой реестра не блокирует сохранение сообщения
		node, err := s.resolver.Resolve(c.Request.Context(), msg.SenderINN)
		if err != nil {
			s.logger.Error("failed to resolve sender ownership",
				"inn", msg.SenderINN,
				"error", err,
				"request_id", middleware.GetRequestID(c))
		} else if node != nil {
			companyInfo["ownership"] = node
		}
	}

	receiverInfo := gin.H{}
	if msg.ReceiverName != "" {
		receiverInfo["sdn_check"] = s.matcher.Search(msg.ReceiverName)
	}

	companyJSON, err := json.Marshal(companyInfo)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to serialize company info", err))
		return
	}
	receiverJSON, err := json.Marshal(receiverInfo)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to serialize receiver info", err))
		return
	}

	saved, err := s.swiftStore.Save(c.Request.Context(), msg, companyJSON, receiverJSON)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to save swift message", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved":         saved,
		"message":       msg,
		"company_info":  companyInfo,
		"receiver_info": receiverInfo,
	})
}

// handleSwiftMessages сохраненные сообщения, новые первыми
func (s *Server) handleSwiftMessages(c *gin.Context) {
	messages, err := s.swiftStore.List(c.Request.Context(), 100)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to list swift messages", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

// handleRegister регистрация нового пользователя
func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("username and password are required", err))
		return
	}

	user, err := s.authSvc.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
	})
}

// handleLogin проверка пароля и выдача токена
func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("username and password are required", err))
		return
	}

	token, user, err := s.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
