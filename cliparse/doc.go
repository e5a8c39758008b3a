// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing from CLI flags and
environment variables.

CLI flags take precedence over environment variables:

	go run main.go -p 8080 -d "postgres://..." -t postgres

Settings:

  - PORT (-p): server port, default 8080
  - DATABASE_URL (-d): connection string or sqlite file path (required)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - BASE_URL (-base-url): public URL of this API, used in share links
  - FRONTEND_URL (-frontend-url): public URL of the frontend SPA

A .env file in the working directory is loaded by main before parsing.
*/
package cliparse
