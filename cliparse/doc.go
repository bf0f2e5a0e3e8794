// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line flags, environment variables and
configuration validation.

# Configuration

Commands bind flags onto their own flag set and resolve after parsing:

	var cfg cliparse.Config
	cliparse.BindFlags(cmd.Flags(), &cfg)
	// after cobra parses:
	err := cfg.Resolve(cmd.Flags())

ParseFlags does both on a fresh flag set:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p, --port            PORT                         8000
	-d, --database-url    DATABASE_URL                 required
	-t, --database-type   DATABASE_TYPE                postgres
	--jwt-secret          JWT_SECRET_KEY               required
	--jwt-algorithm       JWT_ALGORITHM                HS256
	--token-ttl           ACCESS_TOKEN_EXPIRE_MINUTES  30m
	--cors-origins        BACKEND_CORS_ORIGINS         localhost:3000 origins
	--log-level           LOG_LEVEL                    info
	--log-format          LOG_FORMAT                   json
	--max-open-conns      DB_MAX_OPEN_CONNS            10
	--max-idle-conns      DB_MAX_IDLE_CONNS            5
	--env-file            -                            .env

CLI flags take precedence over environment variables. The token lifetime
flag takes a duration ("45m") while its variable is a number of minutes.
BACKEND_CORS_ORIGINS is a comma separated list.

# .env Files

Before the environment is read, the file named by --env-file is loaded with
godotenv. Variables already present in the environment are not replaced and
a missing file is ignored.

# Validation

Resolve returns an error if DATABASE_URL or JWT_SECRET_KEY is missing, the
database type is not postgres, sqlite or mysql, or a numeric variable does
not parse.
*/
package cliparse
