// Package api provides HTTP API endpoints for the TunaMUD server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/tunamud/server/result"
	"github.com/dekarrin/tunamud/server/serr"
	"github.com/dekarrin/tunamud/server/tunas"
	"go.uber.org/zap"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend, see [tunas.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend tunas.Service

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-401 or HTTP-500 to deprioritize such requests.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte

	// Log receives a line for every response. If nil, nothing is logged.
	Log *zap.Logger
}

func (api API) logger() *zap.Logger {
	if api.Log == nil {
		return zap.NewNop()
	}
	return api.Log
}

// v must be a pointer to a type. If the JSON itself is bad, the returned error
// matches serr.ErrBodyUnmarshal.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if strings.ToLower(mediaType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc is an endpoint that gives a result for a request.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint turns ep into an http.HandlerFunc that logs and writes the result,
// and converts panics into an HTTP-500.
func (api API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	log := api.logger()

	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req, log)
		r := ep(req)

		if r.Status == 0 {
			logHttpResponse(log, req, http.StatusInternalServerError, true, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// marshal now so that a failure can still become a proper response.
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
		}

		logHttpResponse(log, req, r.Status, r.IsErr, r.InternalMsg)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusInternalServerError {
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request, log *zap.Logger) {
	if panicErr := recover(); panicErr != nil {
		msg := fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))
		logHttpResponse(log, req, http.StatusInternalServerError, true, msg)
		result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			msg,
		).WriteResponse(w)
	}
}

func logHttpResponse(log *zap.Logger, req *http.Request, respStatus int, isErr bool, msg string) {
	// we don't really care about the ephemeral port from the client end
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	fields := []zap.Field{
		zap.String("remote", remoteIP),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", respStatus),
	}

	if isErr {
		log.Error(msg, fields...)
	} else {
		log.Info(msg, fields...)
	}
}
