package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/catalog"
	"github.com/abhisek/ecoquest/internal/completion"
	"github.com/abhisek/ecoquest/internal/profile"
	"github.com/abhisek/ecoquest/internal/progress"
)

type signupReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResp struct {
	UserID          string            `json:"user_id"`
	Name            string            `json:"name"`
	Token           string            `json:"token"`
	ExpiresAt       time.Time         `json:"expires_at"`
	Streak          int               `json:"streak"`
	NewAchievements []achievementView `json:"new_achievements"`
}

type achievementView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

func earnedViews(list []profile.EarnedAchievement) []achievementView {
	out := make([]achievementView, 0, len(list))
	for _, a := range list {
		at := a.EarnedAt
		out = append(out, achievementView{
			ID: a.ID, Name: a.Name, Description: a.Description,
			Icon: a.Icon, Color: a.Color, Earned: true, EarnedAt: &at,
		})
	}
	return out
}

// POST /api/v1/auth/signup
func (s *Server) signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := s.Accounts.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResp{
		UserID: sess.UserID, Name: sess.Name, Token: sess.Token, ExpiresAt: sess.ExpiresAt,
		Streak: 1, NewAchievements: []achievementView{},
	})
}

// POST /api/v1/auth/login records the day's login for the streak.
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := s.Accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	ctx := auth.WithUser(c.Request.Context(), sess.UserID)
	lo, err := s.Progress.Login(ctx, profile.DateOf(s.now()))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResp{
		UserID: sess.UserID, Name: sess.Name, Token: sess.Token, ExpiresAt: sess.ExpiresAt,
		Streak: lo.Streak, NewAchievements: earnedViews(lo.NewAchievements),
	})
}

// POST /api/v1/me/checkin records a login for an already issued token.
func (s *Server) checkin(c *gin.Context) {
	lo, err := s.Progress.Login(c.Request.Context(), profile.DateOf(s.now()))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"streak":           lo.Streak,
		"new_achievements": earnedViews(lo.NewAchievements),
	})
}

// GET /api/v1/me returns the stored user document.
func (s *Server) me(c *gin.Context) {
	p, err := s.Progress.Profile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile.ToDocument(p))
}

type topicView struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Levels      []levelView `json:"levels"`
}

type levelView struct {
	Number     int    `json:"number"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
}

// GET /api/v1/topics
func (s *Server) listTopics(c *gin.Context) {
	all := catalog.All()
	out := make([]topicView, 0, len(all))
	for _, t := range all {
		tv := topicView{ID: t.ID, Title: t.Title, Description: t.Description}
		for _, l := range t.Levels {
			tv.Levels = append(tv.Levels, levelView{Number: l.Number, Title: l.Title, Difficulty: string(l.Difficulty)})
		}
		out = append(out, tv)
	}
	c.JSON(http.StatusOK, out)
}

type levelRowView struct {
	levelView
	Status           string `json:"status"`
	LessonsCompleted int    `json:"lessons_completed"`
	CorrectAnswers   int    `json:"correct_answers"`
	Medal            string `json:"medal"`
}

type statsView struct {
	Completed       int     `json:"completed"`
	Total           int     `json:"total"`
	Percentage      float64 `json:"percentage"`
	LevelsCompleted int     `json:"levels_completed"`
}

func toStatsView(st progress.Stats) statsView {
	return statsView{
		Completed: st.Completed, Total: st.Total,
		Percentage: st.Percentage, LevelsCompleted: st.LevelsCompleted,
	}
}

// GET /api/v1/me/topics/:topic
func (s *Server) topicOverview(c *gin.Context) {
	topic, ok := catalog.Lookup(c.Param("topic"))
	if !ok {
		s.fail(c, profile.ErrUnknownTopic)
		return
	}
	p, err := s.Progress.Profile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	rows := progress.Overview(p, topic)
	levels := make([]levelRowView, 0, len(rows))
	for _, r := range rows {
		levels = append(levels, levelRowView{
			levelView:        levelView{Number: r.Level.Number, Title: r.Level.Title, Difficulty: string(r.Level.Difficulty)},
			Status:           string(r.Status),
			LessonsCompleted: r.LessonsCompleted,
			CorrectAnswers:   r.CorrectAnswers,
			Medal:            string(r.Medal),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"topic":  topic.ID,
		"title":  topic.Title,
		"stats":  toStatsView(progress.TopicStats(p, topic.ID)),
		"levels": levels,
	})
}

// GET /api/v1/me/stats
func (s *Server) stats(c *gin.Context) {
	p, err := s.Progress.Profile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	topics := make(map[string]statsView)
	for _, id := range catalog.IDs() {
		topics[id] = toStatsView(progress.TopicStats(p, id))
	}
	c.JSON(http.StatusOK, gin.H{
		"eco_points":   p.EcoPoints,
		"max_points":   p.MaxPoints,
		"streak":       p.Streak,
		"achievements": len(p.Achievements),
		"topics":       topics,
	})
}

// GET /api/v1/achievements/catalog
func (s *Server) achievementCatalog(c *gin.Context) {
	defs := s.Achievements.Registry()
	out := make([]achievementView, 0, len(defs))
	for _, d := range defs {
		out = append(out, achievementView{ID: d.ID, Name: d.Name, Description: d.Description, Icon: d.Icon, Color: d.Color})
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/v1/me/achievements lists the whole catalog with earned state.
func (s *Server) gallery(c *gin.Context) {
	p, err := s.Progress.Profile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	earned := make(map[string]profile.EarnedAchievement, len(p.Achievements))
	for _, a := range p.Achievements {
		earned[a.ID] = a
	}

	defs := s.Achievements.Registry()
	out := make([]achievementView, 0, len(defs))
	for _, d := range defs {
		v := achievementView{ID: d.ID, Name: d.Name, Description: d.Description, Icon: d.Icon, Color: d.Color}
		if a, ok := earned[d.ID]; ok {
			at := a.EarnedAt
			v.Earned, v.EarnedAt = true, &at
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, gin.H{"earned": len(earned), "total": len(defs), "achievements": out})
}

func levelParam(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		return 0, profile.ErrInvalidLevel
	}
	return n, nil
}

// GET /api/v1/me/topics/:topic/levels/:level/lesson
func (s *Server) lesson(c *gin.Context) {
	if s.Lessons == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "lesson generation is not configured"})
		return
	}
	level, err := levelParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	topicID := c.Param("topic")
	if err := progress.Validate(topicID, level); err != nil {
		s.fail(c, err)
		return
	}
	p, err := s.Progress.Profile(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := progress.RequireUnlocked(p, topicID, level); err != nil {
		s.fail(c, err)
		return
	}

	l, err := s.Lessons.Generate(c.Request.Context(), topicID, level)
	if err != nil {
		s.fail(c, err)
		return
	}
	resp := gin.H{
		"topic":       l.TopicID,
		"topic_title": l.TopicTitle,
		"level":       l.Level.Number,
		"level_title": l.Level.Title,
		"paragraph":   l.Paragraph,
		"quiz":        nil,
	}
	if l.Quiz != nil {
		resp["quiz"] = l.Quiz
	}
	c.JSON(http.StatusOK, resp)
}

type completeReq struct {
	Correct         *bool `json:"correct" binding:"required"`
	LevelDurationMs int64 `json:"level_duration_ms"`
}

// POST /api/v1/me/topics/:topic/levels/:level/lessons
func (s *Server) completeLesson(c *gin.Context) {
	var req completeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, err := levelParam(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	out, err := s.Progress.Complete(c.Request.Context(), completion.Request{
		TopicID:       c.Param("topic"),
		Level:         level,
		Correct:       *req.Correct,
		LevelDuration: time.Duration(req.LevelDurationMs) * time.Millisecond,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"topic":               out.TopicID,
		"level":               out.Level,
		"lessons_completed":   out.LessonsCompleted,
		"correct_answers":     out.CorrectAnswers,
		"level_completed":     out.LevelCompleted,
		"next_level_unlocked": out.NextLevelUnlocked,
		"medal":               string(out.Medal),
		"points_awarded":      out.PointsAwarded,
		"eco_points":          out.EcoPoints,
		"new_achievements":    earnedViews(out.NewAchievements),
	})
}
