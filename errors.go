// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package semdex

import "errors"

var (
	// ErrDatabaseExists is returned when creating a database that already exists.
	ErrDatabaseExists = errors.New("database already exists")

	// ErrDatabaseNotFound is returned when the named database does not exist.
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrInvalidDatabaseName is returned for names unusable as a directory name.
	ErrInvalidDatabaseName = errors.New("invalid database name")
)
