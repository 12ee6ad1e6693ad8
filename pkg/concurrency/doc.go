/*
Package concurrency provides advanced concurrency primitives with observability.

Features:
  - SmartMutex / SmartRWMutex: slow-lock logging, plus a deadlock monitor
    on SmartMutex

The Handler Registry and Mapper Registry (pkg/registry) use SmartRWMutex so
that lookups are safe for concurrent readers while registration takes the
write lock.
*/
package concurrency
