// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a three-view workflow for browsing the library:
//  1. [PlaylistListView] : Browse playlists, plus an "All Tracks" entry for the whole library
//  2. [TrackListView] : Browse the songs of the selected playlist
//  3. [StreamView] : Show the streamable URL resolved for the selected song
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Remote calls run as [tea.Cmd] functions against a services.Library, so the event loop never blocks on the network.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
