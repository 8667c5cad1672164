// Package result contains the results that API endpoints give back, and the
// code to write them out as HTTP responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error result.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is the outcome of an endpoint. InternalMsg is for the server log and
// is never sent to the client.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	// set by PrepareMarshaledResponse.
	respJSONBytes []byte
}

// internalMsg gives the message formatted from args, whose first element must
// be a format string, or def if args is empty.
func internalMsg(def string, args []interface{}) string {
	if len(args) < 1 {
		return def
	}
	return fmt.Sprintf(args[0].(string), args[1:]...)
}

// OK gives an HTTP-200 with respObj as the JSON body. internalMsgArgs is an
// optional format string and its arguments for the log.
func OK(respObj interface{}, internalMsgArgs ...interface{}) Result {
	return Response(http.StatusOK, respObj, internalMsg("OK", internalMsgArgs))
}

// Created gives an HTTP-201 with respObj as the JSON body.
func Created(respObj interface{}, internalMsgArgs ...interface{}) Result {
	return Response(http.StatusCreated, respObj, internalMsg("created", internalMsgArgs))
}

// BadRequest gives an HTTP-400 that shows userMsg to the client.
func BadRequest(userMsg string, internalMsgArgs ...interface{}) Result {
	return Err(http.StatusBadRequest, userMsg, internalMsg("bad request", internalMsgArgs))
}

// MethodNotAllowed gives an HTTP-405 for req.
func MethodNotAllowed(req *http.Request, internalMsgArgs ...interface{}) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, internalMsg("method not allowed", internalMsgArgs))
}

// NotFound gives an HTTP-404.
func NotFound(internalMsgArgs ...interface{}) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", internalMsg("not found", internalMsgArgs))
}

// Unauthorized gives an HTTP-401 along with the WWW-Authenticate header. If
// userMsg is empty, a generic message is shown to the client.
func Unauthorized(userMsg string, internalMsgArgs ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, internalMsg("unauthorized", internalMsgArgs)).
		WithHeader("WWW-Authenticate", `Bearer realm="TunaMUD server", charset="utf-8"`)
}

// InternalServerError gives an HTTP-500. The client only ever sees a generic
// message.
func InternalServerError(internalMsgArgs ...interface{}) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", internalMsg("internal server error", internalMsgArgs))
}

// Response gives a successful JSON result. respObj is not read when status is
// http.StatusNoContent.
func Response(status int, respObj interface{}, internalMsg string) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: internalMsg,
		resp:        respObj,
	}
}

// Err gives a JSON error result whose body is an ErrorResponse.
func Err(status int, userMsg, internalMsg string) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: internalMsg,
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// TextErr is like Err but writes userMsg as plain text. It is for when JSON
// encoding itself cannot be trusted.
func TextErr(status int, userMsg, internalMsg string) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: internalMsg,
		resp:        userMsg,
	}
}

// WithHeader gives a copy of r that also sets the given header.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(cp.hdrs, r.hdrs)
	cp.hdrs = append(cp.hdrs, [2]string{name, val})
	return cp
}

// PrepareMarshaledResponse marshals the body of r if it needs it. Calling it
// again after it succeeds has no effect.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or cannot
// be marshaled; call PrepareMarshaledResponse first to find out safely.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte

	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		respBytes = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
