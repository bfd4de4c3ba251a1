package ui

import (
	"context"
	"fmt"
	"net/url"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	StreamView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	library      services.Library
	session      *models.Session
	width        int
	height       int
	playlistList list.Model
	trackList    list.Model
	current      *models.Playlist
	song         models.Song
	stream       *url.URL
	loading      bool
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that browses library with session.
func NewModel(ctx context.Context, library services.Library, session *models.Session) *Model {
	return &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		library:      library,
		session:      session,
		playlistList: newList("Playlists", nil),
		trackList:    newList("Tracks", nil),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return l
}

// Init initializes the TUI by fetching playlists.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.trackList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			return m.handleErrorKeys(msg)
		}
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case StreamView:
			return m.handleStreamKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	m.loading = false

	switch msg.kind {
	case MsgPlaylistsFetched:
		res := msg.data.(playlistsResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		items := make([]list.Item, 0, len(res.playlists)+1)
		items = append(items, libraryItem())
		for _, pl := range res.playlists {
			items = append(items, playlistItem{playlist: pl})
		}
		m.playlistList = newList("Playlists", items)
		m.playlistList.SetSize(m.width-4, m.height-8)
		m.view = PlaylistListView

	case MsgTracksFetched:
		res := msg.data.(tracksResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.showTracks(res.playlist)

	case MsgURLResolved:
		res := msg.data.(urlResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.song = res.song
		m.stream = res.url
		m.view = StreamView
	}

	return m, nil
}

func (m *Model) showTracks(playlist *models.Playlist) {
	m.current = playlist
	items := make([]list.Item, len(playlist.Songs))
	for i, song := range playlist.Songs {
		items[i] = songItem{song: song}
	}
	m.trackList = newList(fmt.Sprintf("Tracks in '%s'", playlist.Title), items)
	m.trackList.SetSize(m.width-4, m.height-8)
	m.view = TrackListView
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.Err(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + styles.Help("Press esc to go back, q to quit")
	}

	if m.loading {
		return styles.Help("Loading…")
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case StreamView:
		return m.renderStream()
	default:
		return ""
	}
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
	}
	return m, nil
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.playlistList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.loading = true
		return m, m.fetchPlaylists()
	case key.Matches(msg, m.keys.enter):
		item, ok := m.playlistList.SelectedItem().(playlistItem)
		if !ok {
			return m, nil
		}
		if item.library {
			m.loading = true
			return m, m.fetchLibrary()
		}
		playlist := item.playlist
		m.showTracks(&playlist)
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		item, ok := m.trackList.SelectedItem().(songItem)
		if !ok {
			return m, nil
		}
		m.loading = true
		return m, m.resolveURL(item.song)
	}

	return m.updateLists(msg)
}

func (m *Model) handleStreamKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = TrackListView
		m.stream = nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.library.LoadAllPlaylists(m.ctx, m.session)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchLibrary() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.library.LoadAllTracks(m.ctx, m.session)
		if err != nil {
			return tracksFetchedMsg(nil, err)
		}
		item := libraryItem()
		item.playlist.Songs = songs
		return tracksFetchedMsg(&item.playlist, nil)
	}
}

func (m *Model) resolveURL(song models.Song) tea.Cmd {
	return func() tea.Msg {
		u, err := m.library.PlayURL(m.ctx, song.ID, m.session)
		return urlResolvedMsg(song, u, err)
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.reload, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderTrackList() string {
	playKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "stream url"))
	helpKeys := []key.Binding{playKey, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderStream() string {
	title := styles.Title(fmt.Sprintf("%s - %s", m.song.Artist, m.song.Title))
	info := fmt.Sprintf("Album: %s\nDuration: %s\n\n%s", m.song.Album, m.song.Duration(), styles.OK(m.stream.String()))

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}
