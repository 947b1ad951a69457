// Package http provides HTTP handlers and middleware for the timesheet API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at"} with the token also surfaced via the `X-Session-Token`
//     header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted from the
//     Authorization header or session cookie. Returns 204 No Content and clears the
//     cookie.
//   - GET /employees, POST /employees, GET /employees/{id}, PUT /employees/{id},
//     DELETE /employees/{id}: employee management endpoints exchanging the
//     `employeeDTO` payload defined in employee_handler.go. Mutations are restricted
//     to administrators; listing is available to any authenticated principal.
//   - GET /timesheet?period={selector}: the period view for the session's employee,
//     bundling range metadata, a day-by-day calendar, a summary, and the entries.
//   - GET /api/timesheet, POST /api/timesheet, PUT /api/timesheet/{id},
//     DELETE /api/timesheet/{id}: timesheet entry endpoints exchanging the `entryDTO`
//     payload defined in timesheet_handler.go, scoped to the session's employee.
//   - POST /api/timesheet/{id}/approve, POST /api/timesheet/{id}/deny: review
//     endpoints for the entry owner's assigned manager or an administrator.
//   - GET /api/period_timesheets/{selector}: entries plus range metadata for the
//     given period selector.
//   - POST /upload_files/{emp_id}, GET /upload_files/{emp_id}, GET /files/{file_id}:
//     multipart attachment upload, attachment listing, and blob download.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
