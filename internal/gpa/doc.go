// Package gpa is the grade-point calculation and planning engine.
//
// Every function here is pure: it reads its arguments, never mutates them, and performs no I/O.
// Callers (usecases, the HTTP adapters and the CLI) load records from storage, pass them in as
// plain values and render or persist whatever comes back.
package gpa
