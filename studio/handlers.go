package studio

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridoystarlord/visusql/export"
	"github.com/ridoystarlord/visusql/generator"
	"github.com/ridoystarlord/visusql/schema"
	"github.com/ridoystarlord/visusql/validator"
)

type tableView struct {
	schema.Table
	Position schema.Position `json:"position"`
}

type schemaView struct {
	Tables        []tableView           `json:"tables"`
	Relationships []schema.Relationship `json:"relationships"`
	SQL           string                `json:"sql"`
	Stats         schema.Stats          `json:"stats"`
	DataTypes     []string              `json:"dataTypes"`
}

type createTableRequest struct {
	Name string `json:"name"`
}

// updateTableRequest accepts a table exactly as GET /api/schema serves it.
// The canvas position is not part of the model and is dropped.
type updateTableRequest struct {
	schema.Table
	Position *schema.Position `json:"position,omitempty"`
}

type connectRequest struct {
	SourceTableID string `json:"sourceTableId"`
	TargetTableID string `json:"targetTableId"`
}

func viewOf(sc *schema.Schema) schemaView {
	tables := sc.Tables()
	views := make([]tableView, len(tables))
	for i, t := range tables {
		views[i] = tableView{Table: t, Position: schema.DefaultPosition(i)}
	}
	return schemaView{
		Tables:        views,
		Relationships: sc.Relationships(),
		SQL:           generator.GenerateSQL(tables),
		Stats:         sc.Stats(),
		DataTypes:     schema.DataTypes,
	}
}

// getSchema handles GET /api/schema
func (s *Server) getSchema(c *gin.Context) {
	var view schemaView
	s.withSchema(func(sc *schema.Schema) {
		view = viewOf(sc)
	})
	success(c, http.StatusOK, view, "")
}

// reset handles POST /api/reset
func (s *Server) reset(c *gin.Context) {
	var empty bool
	s.withSchema(func(sc *schema.Schema) {
		empty = len(sc.Tables()) == 0
		sc.Reset()
	})
	if empty {
		fail(c, http.StatusBadRequest, nil, "No schema to reset!")
		return
	}
	success(c, http.StatusOK, gin.H{"sql": ""}, "Schema reset successfully!")
}

// createTable handles POST /api/tables
func (s *Server) createTable(c *gin.Context) {
	var req createTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	var (
		table schema.Table
		sql   string
		err   error
	)
	s.withSchema(func(sc *schema.Schema) {
		table, err = sc.AddTable(req.Name)
		sql = sqlOf(sc)
	})
	if err != nil {
		failFor(c, err, "Failed to create table")
		return
	}
	success(c, http.StatusCreated, gin.H{"table": table, "sql": sql},
		fmt.Sprintf("Table %q created successfully!", table.Name))
}

// updateTable handles PUT /api/tables/:id
func (s *Server) updateTable(c *gin.Context) {
	var req updateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	var (
		table schema.Table
		sql   string
		err   error
	)
	s.withSchema(func(sc *schema.Schema) {
		table, err = sc.UpdateTable(c.Param("id"), req.Table)
		sql = sqlOf(sc)
	})
	if err != nil {
		failFor(c, err, "Failed to update table")
		return
	}
	success(c, http.StatusOK, gin.H{"table": table, "sql": sql},
		fmt.Sprintf("Table %q updated successfully!", table.Name))
}

// deleteTable handles DELETE /api/tables/:id
func (s *Server) deleteTable(c *gin.Context) {
	id := c.Param("id")

	var (
		name string
		sql  string
	)
	s.withSchema(func(sc *schema.Schema) {
		if t, err := sc.Table(id); err == nil {
			name = t.Name
		}
		sc.DeleteTable(id)
		sql = sqlOf(sc)
	})

	message := ""
	if name != "" {
		message = fmt.Sprintf("Table %q deleted successfully!", name)
	}
	success(c, http.StatusOK, gin.H{"sql": sql}, message)
}

// addColumn handles POST /api/tables/:id/columns
func (s *Server) addColumn(c *gin.Context) {
	var (
		col schema.Column
		sql string
		err error
	)
	s.withSchema(func(sc *schema.Schema) {
		col, err = sc.AddColumn(c.Param("id"))
		sql = sqlOf(sc)
	})
	if err != nil {
		failFor(c, err, "Failed to add column")
		return
	}
	success(c, http.StatusCreated, gin.H{"column": col, "sql": sql}, "")
}

// updateColumn handles PATCH /api/tables/:id/columns/:columnId
func (s *Server) updateColumn(c *gin.Context) {
	var req schema.ColumnUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	var (
		col schema.Column
		sql string
		err error
	)
	s.withSchema(func(sc *schema.Schema) {
		col, err = sc.UpdateColumn(c.Param("id"), c.Param("columnId"), req)
		sql = sqlOf(sc)
	})
	if err != nil {
		failFor(c, err, "Failed to update column")
		return
	}
	success(c, http.StatusOK, gin.H{"column": col, "sql": sql}, "")
}

// deleteColumn handles DELETE /api/tables/:id/columns/:columnId
func (s *Server) deleteColumn(c *gin.Context) {
	var (
		sql string
		err error
	)
	s.withSchema(func(sc *schema.Schema) {
		err = sc.DeleteColumn(c.Param("id"), c.Param("columnId"))
		sql = sqlOf(sc)
	})
	if err != nil {
		failFor(c, err, "Failed to delete column")
		return
	}
	success(c, http.StatusOK, gin.H{"sql": sql}, "")
}

// connect handles POST /api/relationships
func (s *Server) connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	var (
		rel schema.Relationship
		sql string
		err error
	)
	s.withSchema(func(sc *schema.Schema) {
		rel, err = sc.Connect(req.SourceTableID, req.TargetTableID)
		sql = sqlOf(sc)
	})
	if err != nil {
		failFor(c, err, "Failed to create relationship")
		return
	}
	success(c, http.StatusCreated, gin.H{"relationship": rel, "sql": sql},
		fmt.Sprintf("Relationship created: %s", rel.Label))
}

// disconnect handles DELETE /api/relationships/:id
func (s *Server) disconnect(c *gin.Context) {
	var sql string
	s.withSchema(func(sc *schema.Schema) {
		sc.Disconnect(c.Param("id"))
		sql = sqlOf(sc)
	})
	success(c, http.StatusOK, gin.H{"sql": sql}, "")
}

// getSQL handles GET /api/sql
func (s *Server) getSQL(c *gin.Context) {
	var sql string
	s.withSchema(func(sc *schema.Schema) {
		sql = sqlOf(sc)
	})
	c.String(http.StatusOK, sql)
}

// exportSQL handles GET /api/export/sql
func (s *Server) exportSQL(c *gin.Context) {
	var (
		buf bytes.Buffer
		err error
	)
	now := s.cfg.Now()
	s.withSchema(func(sc *schema.Schema) {
		err = export.WriteSQL(&buf, sc.Tables())
	})
	if err != nil {
		s.failExport(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SQLFilename(now)))
	c.Data(http.StatusOK, "text/sql; charset=utf-8", buf.Bytes())
}

// exportJSON handles GET /api/export/json
func (s *Server) exportJSON(c *gin.Context) {
	var (
		buf bytes.Buffer
		err error
	)
	now := s.cfg.Now()
	s.withSchema(func(sc *schema.Schema) {
		err = export.WriteJSON(&buf, sc.Tables(), now)
	})
	if err != nil {
		s.failExport(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.JSONFilename(now)))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

func (s *Server) failExport(c *gin.Context, err error) {
	if errors.Is(err, export.ErrEmptySchema) {
		fail(c, http.StatusBadRequest, err, "No schema to export!")
		return
	}
	fail(c, http.StatusInternalServerError, err, "Export failed")
}

// getMermaid handles GET /api/docs/mermaid
func (s *Server) getMermaid(c *gin.Context) {
	var doc string
	s.withSchema(func(sc *schema.Schema) {
		doc = generator.GenerateMermaid(sc.Tables(), sc.Relationships())
	})
	c.String(http.StatusOK, doc)
}

// validate handles GET /api/validate
func (s *Server) validate(c *gin.Context) {
	var result *validator.ValidationResult
	s.withSchema(func(sc *schema.Schema) {
		result = validator.Validate(sc.Tables(), sc.Relationships())
	})
	success(c, http.StatusOK, result, "")
}
