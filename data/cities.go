package data

// Cities is the static list offered by the location picker. Ordered roughly
// by population so an empty search surfaces the biggest cities first.
var Cities = []string{
	"Москва",
	"Санкт-Петербург",
	"Новосибирск",
	"Екатеринбург",
	"Казань",
	"Нижний Новгород",
	"Челябинск",
	"Самара",
	"Омск",
	"Ростов-на-Дону",
	"Уфа",
	"Красноярск",
	"Воронеж",
	"Пермь",
	"Волгоград",
	"Краснодар",
	"Саратов",
	"Тюмень",
	"Тольятти",
	"Ижевск",
	"Барнаул",
	"Ульяновск",
	"Иркутск",
	"Хабаровск",
	"Ярославль",
	"Владивосток",
	"Махачкала",
	"Томск",
	"Оренбург",
	"Кемерово",
	"Новокузнецк",
	"Рязань",
	"Астрахань",
	"Набережные Челны",
	"Пенза",
	"Липецк",
	"Киров",
	"Чебоксары",
	"Тула",
	"Калининград",
	"Балашиха",
	"Курск",
	"Севастополь",
	"Ставрополь",
	"Улан-Удэ",
	"Сочи",
	"Тверь",
	"Магнитогорск",
	"Иваново",
	"Брянск",
	"Белгород",
	"Сургут",
	"Владимир",
	"Чита",
	"Нижний Тагил",
	"Архангельск",
	"Симферополь",
	"Калуга",
	"Смоленск",
	"Волжский",
	"Якутск",
	"Саранск",
	"Череповец",
	"Курган",
	"Вологда",
	"Орёл",
	"Подольск",
	"Грозный",
	"Владикавказ",
	"Тамбов",
	"Мурманск",
	"Петрозаводск",
	"Стерлитамак",
	"Нижневартовск",
	"Кострома",
	"Новороссийск",
	"Йошкар-Ола",
	"Химки",
	"Таганрог",
	"Комсомольск-на-Амуре",
	"Сыктывкар",
	"Нальчик",
	"Шахты",
	"Дзержинск",
	"Орск",
	"Братск",
	"Энгельс",
	"Ангарск",
	"Благовещенск",
	"Королёв",
	"Великий Новгород",
	"Мытищи",
	"Псков",
	"Люберцы",
	"Бийск",
	"Южно-Сахалинск",
	"Абакан",
	"Армавир",
	"Рыбинск",
	"Прокопьевск",
	"Норильск",
	"Балаково",
	"Петропавловск-Камчатский",
}
