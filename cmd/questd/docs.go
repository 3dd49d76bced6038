package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           questd API
// @version         1.0
// @description     HTTP API for local on-device task chat and inference session management.
//
// @contact.name   questd maintainers
// @contact.url    https://github.com/your-org/questd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
