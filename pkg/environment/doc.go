// Package environment resolves the deployment environment from APP_ENV.
//
// Development enables debug text logging and the file-backed email sender;
// staging and production log JSON at info level.
package environment
