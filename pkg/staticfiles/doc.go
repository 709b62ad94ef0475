// Package staticfiles serves the local directories of the route table.
//
// The Server is installed in the staticResourceHandler slot. For requests
// whose resolved route has a localDir it:
//
//   - appends index.html to paths ending in "/"
//   - resolves symlinks and dot segments of the requested file
//   - serves root index.html for paths that do not resolve, so client-side
//     routes of a single-page app can be deep linked
//   - rejects any path that resolves outside the route directory with 403
//   - renders files matching replace.pathSuffixes as mustache templates
//     against replace.view, and serves everything else as-is without
//     Cache-Control headers
//
// Parsed templates are cached by path, size and modification time, so an
// edited file is picked up on the next request.
//
// Failures are returned to the host error handler as *approuter.HTTPError:
// 403 for traversal, 404 for missing files, 500 for template errors. Every
// failure logs the file path first.
package staticfiles
