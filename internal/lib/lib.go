// Package lib holds modules that do not fit strictly into a layer. Its
// job package runs background tasks on Redis with Asynq.
package lib
