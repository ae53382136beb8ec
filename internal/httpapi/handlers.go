package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scriptrunner/internal/domain/execution"
	"scriptrunner/internal/observability"
)

// createScriptBody is the body of POST /scripts.
type createScriptBody struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// updateScriptBody is the body of PUT /scripts/{name}.
type updateScriptBody struct {
	Code string `json:"code"`
}

// runBody is the body of POST /run/{name} and POST /run.
type runBody struct {
	Data json.RawMessage `json:"data"`
	Args []string        `json:"args"`
}

type errorBody struct {
	Error string `json:"error"`
}

type runManyResponse struct {
	Results map[string]execution.Result `json:"results"`
}

func (s *Server) handleListScripts(c *gin.Context) {
	snap := s.deps.Registry.Current()
	names := snap.Names()
	observability.SetRegistrySize(len(names))

	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n.String())
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateScript(c *gin.Context) {
	var body createScriptBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, &execution.Error{Kind: execution.BadRequest, Message: "invalid request body"})
		return
	}

	name := execution.Name(body.Name)
	if err := s.deps.Store.Create(name, []byte(body.Code)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) handleUpdateScript(c *gin.Context) {
	var body updateScriptBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, &execution.Error{Kind: execution.BadRequest, Message: "invalid request body"})
		return
	}

	name := execution.Name(c.Param("name"))
	if err := s.deps.Store.Update(name, []byte(body.Code)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleDeleteScript(c *gin.Context) {
	name := execution.Name(c.Param("name"))
	if err := s.deps.Store.Delete(name); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRunOne(c *gin.Context) {
	var body runBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, &execution.Error{Kind: execution.BadRequest, Message: "invalid request body"})
		return
	}

	name := execution.Name(c.Param("name"))
	req := execution.Request{Data: body.Data, Args: body.Args}

	result, err := s.deps.Runner.RunOne(c.Request.Context(), name, req)
	if err != nil {
		writeError(c, err)
		return
	}
	if result.TimedOut {
		c.JSON(http.StatusGatewayTimeout, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRunMany(c *gin.Context) {
	var body runBody
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, &execution.Error{Kind: execution.BadRequest, Message: "invalid request body"})
		return
	}

	names := resolveTargets(c.Query("names"), s.deps.Registry.Current().Names())
	req := execution.Request{Data: body.Data, Args: body.Args}

	outcomes := s.deps.Runner.RunMany(c.Request.Context(), names, req)

	results := make(map[string]execution.Result, len(outcomes))
	for name, outcome := range outcomes {
		if outcome.Err != nil {
			results[name.String()] = execution.Result{
				Stderr:   outcome.Err.Error(),
				ExitCode: -1,
			}
			continue
		}
		results[name.String()] = outcome.Result
	}

	c.JSON(http.StatusOK, runManyResponse{Results: results})
}

// resolveTargets parses a comma-separated names query parameter. An empty
// parameter means "all currently registered names", per §4.5.
func resolveTargets(raw string, all []execution.Name) []execution.Name {
	if strings.TrimSpace(raw) == "" {
		return all
	}

	parts := strings.Split(raw, ",")
	names := make([]execution.Name, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, execution.Name(p))
	}
	return names
}

func writeError(c *gin.Context, err error) {
	kind, ok := execution.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	status := statusForKind(kind)
	c.JSON(status, errorBody{Error: err.Error()})
}

func statusForKind(kind execution.Kind) int {
	switch kind {
	case execution.InvalidName, execution.BadRequest:
		return http.StatusBadRequest
	case execution.ScriptNotFound:
		return http.StatusNotFound
	case execution.ScriptAlreadyExists:
		return http.StatusConflict
	case execution.Timeout:
		return http.StatusGatewayTimeout
	case execution.Io, execution.SpawnFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
