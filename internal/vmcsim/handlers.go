package vmcsim

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/internal/logging"
	"github.com/yaroslav/sddcctl/models"
	"github.com/yaroslav/sddcctl/sdk"
)

// respondError sends an error body shaped like the VMC API's.
func respondError(c *gin.Context, statusCode int, errorCode string, messages ...string) {
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{
		ErrorCode:     errorCode,
		ErrorMessages: messages,
		Status:        statusCode,
		Path:          c.Request.URL.Path,
	})
}

// handleAuthorize exchanges the configured refresh token for a fresh access token.
func (s *Simulator) handleAuthorize(c *gin.Context) {
	if c.PostForm("refresh_token") != s.config.RefreshToken {
		respondError(c, http.StatusBadRequest, "invalid_grant", "invalid refresh token")
		return
	}

	token := uuid.New().String()
	s.mu.Lock()
	s.accessTokens[token] = struct{}{}
	s.mu.Unlock()

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   1799,
	})
}

// requireAccessToken rejects VMC calls without a token issued by handleAuthorize.
func (s *Simulator) requireAccessToken(c *gin.Context) {
	token := c.GetHeader(sdk.HeaderAuthToken)

	s.mu.Lock()
	_, ok := s.accessTokens[token]
	s.mu.Unlock()

	if token == "" || !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "missing or unknown csp-auth-token")
		return
	}
	c.Next()
}

func (s *Simulator) handleListConnectedAccounts(c *gin.Context) {
	org := c.Param("org")
	accounts := make([]models.ConnectedAccount, len(s.config.ConnectedAccounts))
	for i, a := range s.config.ConnectedAccounts {
		a.OrgID = org
		accounts[i] = a
	}
	c.JSON(http.StatusOK, accounts)
}

func (s *Simulator) handleListSDDCs(c *gin.Context) {
	c.JSON(http.StatusOK, s.SDDCs(c.Param("org")))
}

func (s *Simulator) handleCreateSDDC(c *gin.Context) {
	org := c.Param("org")

	var req models.CreateSDDCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid.input", fmt.Sprintf("malformed request body: %v", err))
		return
	}
	if msgs := s.validateCreate(&req); len(msgs) > 0 {
		respondError(c, http.StatusBadRequest, "invalid.input", msgs...)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sddcs[org] {
		if existing.Name == req.Name {
			respondError(c, http.StatusConflict, "sddc.name.exists", fmt.Sprintf("SDDC %q already exists", req.Name))
			return
		}
	}

	id := uuid.New().String()
	s.sddcs[org] = append(s.sddcs[org], models.SDDC{
		ID:        id,
		Name:      req.Name,
		OrgID:     org,
		SDDCState: StateDeploying,
		Provider:  req.Provider,
		ResourceConfig: &models.ResourceConfig{
			SDDCID:  id,
			Region:  req.Region,
			VPCCIDR: req.VPCCIDR,
		},
	})
	s.metrics.sddcs.Set(float64(s.countSDDCs()))

	task := s.startTask(org, models.TaskTypeProvision, id, provisionMinutes)
	getLogger(c).Info("SDDC provisioning started",
		zap.String(logging.FieldSDDCID, id),
		zap.String(logging.FieldSDDCName, req.Name),
		zap.String(logging.FieldTaskID, task.ID),
	)

	c.JSON(http.StatusAccepted, task)
}

func (s *Simulator) validateCreate(req *models.CreateSDDCRequest) []string {
	var msgs []string
	if strings.TrimSpace(req.Name) == "" {
		msgs = append(msgs, "name is required")
	}
	if req.NumHosts <= 0 {
		msgs = append(msgs, "num_hosts must be positive")
	}
	if len(req.AccountLinkSDDCConfig) == 0 {
		msgs = append(msgs, "account_link_sddc_config is required")
		return msgs
	}

	linked := req.AccountLinkSDDCConfig[0].ConnectedAccountID
	for _, a := range s.config.ConnectedAccounts {
		if a.ID == linked {
			return msgs
		}
	}
	return append(msgs, fmt.Sprintf("unknown connected account %q", linked))
}

func (s *Simulator) handleDeleteSDDC(c *gin.Context) {
	org := c.Param("org")
	sddcID := c.Param("sddc")

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.sddcs[org]
	for i := range list {
		if list[i].DeletionID() != sddcID {
			continue
		}
		if list[i].SDDCState == StateDeleting {
			respondError(c, http.StatusConflict, "sddc.deleting", "SDDC is already being deleted")
			return
		}

		list[i].SDDCState = StateDeleting
		task := s.startTask(org, models.TaskTypeDelete, sddcID, deleteMinutes)
		getLogger(c).Info("SDDC deletion started",
			zap.String(logging.FieldSDDCID, sddcID),
			zap.String(logging.FieldTaskID, task.ID),
		)
		c.JSON(http.StatusAccepted, task)
		return
	}

	respondError(c, http.StatusNotFound, "sddc.not.found", fmt.Sprintf("SDDC %s not found", sddcID))
}

// handleGetTask advances the task by one poll and returns its state.
func (s *Simulator) handleGetTask(c *gin.Context) {
	org := c.Param("org")
	taskID := c.Param("task")

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.tasks[taskID]
	if !ok || st.org != org {
		respondError(c, http.StatusNotFound, "task.not.found", fmt.Sprintf("task %s not found", taskID))
		return
	}

	if !st.task.IsTerminal() {
		st.polls++
		s.advanceTask(st)
	}

	c.JSON(http.StatusOK, st.task)
}

// startTask must be called with mu held.
func (s *Simulator) startTask(org, taskType, resourceID string, minutes int) models.Task {
	task := models.Task{
		ID:                        uuid.New().String(),
		Status:                    models.TaskStatusStarted,
		TaskType:                  taskType,
		ResourceID:                resourceID,
		ResourceType:              "sddc",
		OrgID:                     org,
		EstimatedRemainingMinutes: minutes,
		StartTime:                 time.Now().UTC().Format(time.RFC3339),
	}
	s.tasks[task.ID] = &simTask{task: task, org: org}
	s.metrics.tasksTotal.WithLabelValues(taskType).Inc()
	return task
}

// advanceTask must be called with mu held.
func (s *Simulator) advanceTask(st *simTask) {
	total := s.config.PollsToFinish
	if st.polls < total {
		remaining := total - st.polls
		st.task.ProgressPercent = 100 * st.polls / total
		st.task.EstimatedRemainingMinutes = st.task.EstimatedRemainingMinutes * remaining / (remaining + 1)
		return
	}

	st.task.EstimatedRemainingMinutes = 0
	st.task.EndTime = time.Now().UTC().Format(time.RFC3339)

	org := st.task.OrgID
	list := s.sddcs[org]
	idx := -1
	for i := range list {
		if list[i].DeletionID() == st.task.ResourceID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		switch st.task.TaskType {
		case models.TaskTypeProvision:
			if _, fail := s.failNames[list[idx].Name]; fail {
				st.task.Status = models.TaskStatusFailed
				st.task.ErrorMessage = "simulated provisioning failure"
				list[idx].SDDCState = StateFailed
				return
			}
			list[idx].SDDCState = StateReady
		case models.TaskTypeDelete:
			s.sddcs[org] = append(list[:idx:idx], list[idx+1:]...)
			s.metrics.sddcs.Set(float64(s.countSDDCs()))
		}
	}

	st.task.Status = models.TaskStatusFinished
	st.task.ProgressPercent = 100
}
