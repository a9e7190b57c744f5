package main

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resultportal/internal/csvcodec"
	"resultportal/internal/httpmiddleware"
	"resultportal/internal/otp"
	"resultportal/internal/recheck"
	"resultportal/internal/session"
	"resultportal/internal/student"
)

// deps are the stores and collaborators the HTTP surface runs on. Either
// backend (postgres/redis or in-memory) satisfies them.
type deps struct {
	students student.Store
	rechecks recheck.Store
	sessions session.Store
	login    *otp.Engine
	health   gin.HandlerFunc
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.RequestMetrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", d.health)

	// Student-facing flows.

	r.POST("/v1/results/lookup", func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
			return
		}

		s, err := d.students.FindByPhone(c.Request.Context(), req.Phone)
		if err != nil {
			log.Printf("result lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		if s == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no result found for this phone number"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"student": s})
	})

	r.POST("/v1/rechecks", func(c *gin.Context) {
		var req struct {
			StudentName string `json:"student_name" binding:"required"`
			Phone       string `json:"phone" binding:"required"`
			Email       string `json:"email" binding:"required,email"`
			RollNumber  string `json:"roll_number" binding:"required"`
			Reason      string `json:"reason" binding:"required,min=50"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required and the reason must be at least 50 characters"})
			return
		}

		created, err := d.rechecks.Submit(c.Request.Context(), recheck.Request{
			StudentName: req.StudentName,
			Phone:       req.Phone,
			Email:       req.Email,
			RollNumber:  req.RollNumber,
			Reason:      strings.TrimSpace(req.Reason),
		})
		if err != nil {
			log.Printf("recheck submit failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit request"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"request": created})
	})

	// Admin login wizard.

	startLogin := func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
			return
		}

		if _, err := d.login.Issue(c.Request.Context(), req.Email); err != nil {
			if errors.Is(err, otp.ErrUnknownAdmin) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no admin account for this email"})
				return
			}
			log.Printf("otp issue failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send code"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "login code sent"})
	}
	r.POST("/v1/admin/login/start", startLogin)
	r.POST("/v1/admin/login/resend", startLogin)

	r.POST("/v1/admin/login/verify", func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
			OTP   string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and otp are required"})
			return
		}

		if !d.login.Verify(c.Request.Context(), req.Email, strings.TrimSpace(req.OTP)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
			return
		}
		if err := d.sessions.Activate(c.Request.Context()); err != nil {
			log.Printf("session activate failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true})
	})

	r.POST("/v1/admin/logout", func(c *gin.Context) {
		if err := d.sessions.Clear(c.Request.Context()); err != nil {
			log.Printf("session clear failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
	})

	r.GET("/v1/admin/session", func(c *gin.Context) {
		active, err := d.sessions.Active(c.Request.Context())
		if err != nil {
			log.Printf("session read failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session check failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": active})
	})

	// Admin back office, gated on the session flag.

	admin := r.Group("/v1/admin", sessionGate(d.sessions))

	admin.GET("/students", func(c *gin.Context) {
		students, err := d.students.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
			filtered := students[:0]
			for _, s := range students {
				if strings.Contains(strings.ToLower(s.Name), q) ||
					strings.Contains(strings.ToLower(s.RollNumber), q) ||
					strings.Contains(s.Phone, q) {
					filtered = append(filtered, s)
				}
			}
			students = filtered
		}
		c.JSON(http.StatusOK, gin.H{"students": students, "count": len(students)})
	})

	admin.POST("/students", func(c *gin.Context) {
		var req struct {
			Name             string  `json:"name" binding:"required"`
			RollNumber       string  `json:"roll_number" binding:"required"`
			Section          string  `json:"section"`
			Phone            string  `json:"phone" binding:"required"`
			Email            string  `json:"email"`
			EnrollmentNumber string  `json:"enrollment_number"`
			Marks            int     `json:"marks"`
			Result           string  `json:"result"`
			Percentage       float64 `json:"percentage"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, roll_number and phone are required"})
			return
		}

		created, err := d.students.Create(c.Request.Context(), student.Student{
			Name:             req.Name,
			RollNumber:       req.RollNumber,
			Section:          req.Section,
			Phone:            req.Phone,
			Email:            req.Email,
			EnrollmentNumber: req.EnrollmentNumber,
			Marks:            req.Marks,
			Result:           req.Result,
			Percentage:       req.Percentage,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"student": created})
	})

	admin.PATCH("/students/:id", func(c *gin.Context) {
		var upd student.Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, err := d.students.Update(c.Request.Context(), c.Param("id"), upd)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if updated == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"student": updated})
	})

	admin.DELETE("/students/:id", func(c *gin.Context) {
		if err := d.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	admin.POST("/students/import", func(c *gin.Context) {
		text, err := readCSVUpload(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		records := csvcodec.Decode(text)
		inserted, err := d.students.ReplaceAll(c.Request.Context(), records)
		if err != nil {
			log.Printf("csv import failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"imported": len(inserted),
			"message":  "upload complete, replaced all data",
		})
	})

	admin.GET("/students/export", func(c *gin.Context) {
		students, err := d.students.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		filename := "students_data_" + time.Now().UTC().Format("2006-01-02") + ".csv"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv", []byte(csvcodec.Encode(students)))
	})

	admin.GET("/stats", func(c *gin.Context) {
		students, err := d.students.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		requests, err := d.rechecks.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var sum float64
		passed := 0
		for _, s := range students {
			sum += s.Percentage
			if strings.Contains(strings.ToLower(s.Result), "pass") {
				passed++
			}
		}
		avg := 0
		if len(students) > 0 {
			avg = int(sum/float64(len(students)) + 0.5)
		}
		pending := 0
		for _, req := range requests {
			if req.Status == recheck.StatusPending {
				pending++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"total_students":     len(students),
			"average_percentage": avg,
			"passed":             passed,
			"pending_rechecks":   pending,
		})
	})

	admin.GET("/rechecks", func(c *gin.Context) {
		requests, err := d.rechecks.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
	})

	admin.POST("/rechecks/:id/status", func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		if !recheck.ValidDecision(req.Status) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "status must be approved or rejected"})
			return
		}

		found, err := d.rechecks.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
	})

	return r
}

// sessionGate rejects admin requests until the login flag is set.
func sessionGate(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := sessions.Active(c.Request.Context())
		if err != nil {
			log.Printf("session read failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session check failed"})
			return
		}
		if !active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin login required"})
			return
		}
		c.Next()
	}
}

// readCSVUpload accepts either a multipart "file" field or a raw text body.
func readCSVUpload(c *gin.Context) (string, error) {
	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			return "", errors.New("file field required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("could not read uploaded file")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(data) == 0 {
		return "", errors.New("csv body required")
	}
	return string(data), nil
}
